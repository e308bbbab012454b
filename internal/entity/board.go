package entity

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
)

type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

const (
	BoardSide  = 3
	BoardCells = BoardSide * BoardSide
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

// WinCombos lists rows, then columns, then the two diagonals. Winner scans in this order.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the other player's mark, or EmptyCell for an empty mark.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Board is the 3x3 game grid. The zero value is an empty board in progress.
type Board struct {
	cells [BoardCells]Mark
	moves int
}

func NewBoard() *Board {
	return &Board{}
}

// Reset clears every cell, which is equivalent to a fresh board.
func (that *Board) Reset() {
	that.cells = [BoardCells]Mark{}
	that.moves = 0
}

// PlaceMark puts mark on (row, col). It reports false and leaves the board untouched when
// the move is rejected by MakeTurn.
func (that *Board) PlaceMark(row, col int, mark Mark) bool {
	return that.MakeTurn(row, col, mark) == nil
}

// PlaceAction is PlaceMark with the cell given as row*3+col.
func (that *Board) PlaceAction(action int, mark Mark) bool {
	row, col := DecodeAction(action)
	return that.PlaceMark(row, col, mark)
}

// MakeTurn is the error-returning form of PlaceMark. A won board accepts no further marks.
func (that *Board) MakeTurn(row, col int, mark Mark) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: mark %q", apperror.ErrInvalidCell, mark)
	}

	if !inRange(row, col) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, row, col)
	}

	if that.Winner() != EmptyCell {
		return apperror.ErrGameFinished
	}

	if !that.IsValidMove(row, col) {
		return apperror.ErrCellOccupied
	}

	that.cells[EncodeAction(row, col)] = mark
	that.moves++

	return nil
}

// IsValidMove reports whether (row, col) is on the board and empty.
func (that *Board) IsValidMove(row, col int) bool {
	return inRange(row, col) && that.cells[EncodeAction(row, col)] == EmptyCell
}

// Cell returns the mark at (row, col), EmptyCell when out of range.
func (that *Board) Cell(row, col int) Mark {
	if !inRange(row, col) {
		return EmptyCell
	}
	return that.cells[EncodeAction(row, col)]
}

func (that *Board) MoveCount() int {
	return that.moves
}

// Winner returns the mark of the first uniform line in WinCombos order, or EmptyCell.
func (that *Board) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that.cells[combo[0]], that.cells[combo[1]], that.cells[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) IsTerminal() bool {
	return that.IsFull() || that.Winner() != EmptyCell
}

// Status classifies the board. A full board with a winning line is Won, not Draw.
func (that *Board) Status() Status {
	switch {
	case that.Winner() != EmptyCell:
		return StatusWon
	case that.IsFull():
		return StatusDraw
	default:
		return StatusInProgress
	}
}

// LegalMoves returns the empty cells in row-major order.
func (that *Board) LegalMoves() []int {
	moves := make([]int, 0, BoardCells)
	for i, cell := range that.cells {
		if cell == EmptyCell {
			moves = append(moves, i)
		}
	}

	return moves
}

// Encode renders the board from mark's point of view: own marks +1, opponent -1, empty 0.
func (that *Board) Encode(mark Mark) State {
	state := make(State, BoardCells)
	for i, cell := range that.cells {
		switch cell {
		case EmptyCell:
			state[i] = 0
		case mark:
			state[i] = 1
		default:
			state[i] = -1
		}
	}

	return state
}

// Display writes the grid to w, colouring marks when colored is set.
func (that *Board) Display(w io.Writer, colored bool) {
	fmt.Fprint(w, that.render(aurora.NewAurora(colored)))
}

func (that *Board) String() string {
	return that.render(aurora.NewAurora(false))
}

func (that *Board) render(au aurora.Aurora) string {
	var sb strings.Builder

	for row := 0; row < BoardSide; row++ {
		for col := 0; col < BoardSide; col++ {
			switch cell := that.Cell(row, col); cell {
			case PlayerX:
				sb.WriteString(au.Green(string(cell)).String())
			case PlayerO:
				sb.WriteString(au.Blue(string(cell)).String())
			default:
				sb.WriteString(" ")
			}

			if col < BoardSide-1 {
				sb.WriteString(" | ")
			}
		}
		sb.WriteString("\n")

		if row < BoardSide-1 {
			sb.WriteString("---------\n")
		}
	}

	return sb.String()
}

// EncodeAction maps (row, col) to a cell index.
func EncodeAction(row, col int) int {
	return row*BoardSide + col
}

// DecodeAction maps a cell index to (row, col). Negative actions decode out of range.
func DecodeAction(action int) (int, int) {
	if action < 0 {
		return -1, -1
	}
	return action / BoardSide, action % BoardSide
}

func inRange(row, col int) bool {
	return row >= 0 && row < BoardSide && col >= 0 && col < BoardSide
}
