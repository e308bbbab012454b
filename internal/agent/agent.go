package agent

import "github.com/rocketscienceinc/tictactoe-trainer/internal/entity"

// Agent picks a cell for the side that state was encoded for.
// Non-interactive agents must return an action that is empty in state.
type Agent interface {
	SelectMove(state entity.State) (int, error)
}

// Learner is an agent whose policy improves from rewards.
type Learner interface {
	Agent
	Reward(action int, reward float64, before, after entity.State) error
	SetExplorationRate(rate float64) error
	ExplorationRate() float64
}

// Approximator estimates the value of every action for an encoded state.
type Approximator interface {
	Predict(input []float64) []float64
	TrainOnExample(input, target []float64)
}
