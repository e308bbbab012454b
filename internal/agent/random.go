package agent

import (
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"golang.org/x/exp/rand"
)

// RandomAgent plays a uniformly random empty cell.
type RandomAgent struct {
	random *rand.Rand
}

func NewRandomAgent(source rand.Source) *RandomAgent {
	return &RandomAgent{random: rand.New(source)}
}

func (that *RandomAgent) SelectMove(state entity.State) (int, error) {
	availableCells := entity.LegalMoves(state)
	if len(availableCells) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	return availableCells[that.random.Intn(len(availableCells))], nil
}
