package agent

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

var ErrInputClosed = errors.New("input closed")

// HumanAgent reads "row col" pairs from a terminal. It only checks that the pair is well
// formed and on the board; occupied cells are left for the board to reject.
type HumanAgent struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewHumanAgent(in io.Reader, out io.Writer) *HumanAgent {
	return &HumanAgent{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (that *HumanAgent) SelectMove(_ entity.State) (int, error) {
	for {
		fmt.Fprint(that.out, "Enter row and column (0-2): ")

		if !that.scanner.Scan() {
			if err := that.scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read move: %w", err)
			}
			return 0, ErrInputClosed
		}

		row, col, ok := parseCell(that.scanner.Text())
		if !ok {
			fmt.Fprintln(that.out, "Please enter two numbers between 0 and 2.")
			continue
		}

		return entity.EncodeAction(row, col), nil
	}
}

func parseCell(line string) (int, int, bool) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, false
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}

	if row < 0 || row >= entity.BoardSide || col < 0 || col >= entity.BoardSide {
		return 0, 0, false
	}

	return row, col, true
}
