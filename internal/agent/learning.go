package agent

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"golang.org/x/exp/rand"
)

// LearningAgent is an epsilon-greedy policy over an Approximator.
type LearningAgent struct {
	logger *slog.Logger

	network         Approximator
	random          *rand.Rand
	explorationRate float64
}

func NewLearningAgent(logger *slog.Logger, network Approximator, source rand.Source) *LearningAgent {
	return &LearningAgent{
		logger:  logger.With("component", "learning-agent"),
		network: network,
		random:  rand.New(source),
	}
}

// SelectMove explores a uniformly random legal cell with probability equal to the
// exploration rate, and otherwise takes the legal cell with the highest estimate.
// Ties go to the lowest cell index.
func (that *LearningAgent) SelectMove(state entity.State) (int, error) {
	legal := entity.LegalMoves(state)
	if len(legal) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	if that.random.Float64() < that.explorationRate {
		return legal[that.random.Intn(len(legal))], nil
	}

	estimates := that.network.Predict(state)
	if len(estimates) < entity.BoardCells {
		return 0, fmt.Errorf("%w: %d estimates", apperror.ErrModelShape, len(estimates))
	}

	best := legal[0]
	for _, action := range legal[1:] {
		if estimates[action] > estimates[best] {
			best = action
		}
	}

	return best, nil
}

// Reward trains the network on before, with its current estimates as the target except
// for action, which is set to reward. after is not used by the single-step update.
func (that *LearningAgent) Reward(action int, reward float64, before, after entity.State) error {
	if action < 0 || action >= entity.BoardCells {
		return fmt.Errorf("%w: action %d", apperror.ErrInvalidCell, action)
	}

	target := that.network.Predict(before)
	if len(target) < entity.BoardCells {
		return fmt.Errorf("%w: %d estimates", apperror.ErrModelShape, len(target))
	}

	target[action] = reward
	that.network.TrainOnExample(before, target)

	that.logger.Debug("rewarded", "action", action, "reward", reward, "after", after)

	return nil
}

// SetExplorationRate rejects values outside [0, 1] and keeps the previous rate.
func (that *LearningAgent) SetExplorationRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		that.logger.Warn("exploration rate rejected", "rate", rate, "kept", that.explorationRate)
		return fmt.Errorf("%w: %v", apperror.ErrInvalidExplorationRate, rate)
	}

	that.explorationRate = rate

	return nil
}

func (that *LearningAgent) ExplorationRate() float64 {
	return that.explorationRate
}
