package qnet

import (
	"fmt"

	"github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"golang.org/x/exp/rand"
)

// Config defines the Q-network architecture and its optimiser.
type Config struct {
	HiddenLayers []int   `yaml:"hidden-layers" env-default:"27,256"`
	LearningRate float64 `yaml:"learning-rate" env-default:"0.001"`
	Beta1        float64 `yaml:"beta1" env-default:"0.9"`
	Beta2        float64 `yaml:"beta2" env-default:"0.999"`
	Epsilon      float64 `yaml:"epsilon" env-default:"1e-8"`
	InitStdDev   float64 `yaml:"init-stddev" env-default:"0.1"`
}

func DefaultConfig() Config {
	return Config{
		HiddenLayers: []int{27, 256},
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		InitStdDev:   0.1,
	}
}

// Network maps a 9-cell board encoding to one value estimate per action.
type Network struct {
	neural *deep.Neural
	config Config
}

// New builds a network whose initial weights are drawn from source, so equal seeds give
// equal networks.
func New(config Config, source rand.Source) *Network {
	random := rand.New(source)
	weight := func() float64 {
		return random.NormFloat64() * config.InitStdDev
	}

	layout := append([]int{}, config.HiddenLayers...)
	layout = append(layout, entity.BoardCells)

	neural := deep.NewNeural(&deep.Config{
		Inputs:     entity.BoardCells,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Loss:       deep.LossMeanSquared,
		Weight:     weight,
		Bias:       true,
	})

	return &Network{
		neural: neural,
		config: config,
	}
}

// Predict returns a fresh slice of per-action estimates for input.
func (that *Network) Predict(input []float64) []float64 {
	out := that.neural.Predict(input)

	estimates := make([]float64, len(out))
	copy(estimates, out)

	return estimates
}

// TrainOnExample takes one optimiser step from input toward target.
// The optimiser state starts fresh for every example.
func (that *Network) TrainOnExample(input, target []float64) {
	trainer := training.NewTrainer(that.solver(), 0)

	trainer.Train(that.neural, training.Examples{
		{Input: input, Response: target},
	}, nil, 1)
}

func (that *Network) solver() training.Solver {
	return training.NewAdam(that.config.LearningRate, that.config.Beta1, that.config.Beta2, that.config.Epsilon)
}

// MarshalBinary dumps the architecture and weights.
func (that *Network) MarshalBinary() ([]byte, error) {
	data, err := that.neural.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal network: %w", err)
	}

	return data, nil
}

// UnmarshalBinary replaces the network with a dump produced by MarshalBinary.
// A dump whose input or output width is not one cell per action is rejected.
func (that *Network) UnmarshalBinary(data []byte) error {
	neural, err := deep.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to unmarshal network: %w", err)
	}

	if neural.Config.Inputs != entity.BoardCells {
		return fmt.Errorf("%w: %d inputs", apperror.ErrModelShape, neural.Config.Inputs)
	}

	layout := neural.Config.Layout
	if len(layout) == 0 || layout[len(layout)-1] != entity.BoardCells {
		return fmt.Errorf("%w: layout %v", apperror.ErrModelShape, layout)
	}

	that.neural = neural

	return nil
}
