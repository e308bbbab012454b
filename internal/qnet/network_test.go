package qnet

import (
	"testing"

	"github.com/patrikeh/go-deep"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func squaredError(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func TestNetwork_Predict(t *testing.T) {
	network := New(DefaultConfig(), rand.NewSource(1))

	estimates := network.Predict(entity.NewBoard().Encode(entity.PlayerX))

	require.Len(t, estimates, entity.BoardCells)

	t.Run("Returned slice is owned by the caller", func(t *testing.T) {
		state := entity.State{1, 0, 0, 0, -1, 0, 0, 0, 0}
		first := network.Predict(state)
		first[0] = 1e9

		second := network.Predict(state)

		assert.NotEqual(t, first[0], second[0])
	})
}

func TestNew(t *testing.T) {
	state := entity.State{1, 0, -1, 0, 1, 0, 0, -1, 0}

	t.Run("Equal seeds build equal networks", func(t *testing.T) {
		first := New(DefaultConfig(), rand.NewSource(7))
		second := New(DefaultConfig(), rand.NewSource(7))

		assert.Equal(t, first.Predict(state), second.Predict(state))
	})

	t.Run("Different seeds build different networks", func(t *testing.T) {
		first := New(DefaultConfig(), rand.NewSource(7))
		second := New(DefaultConfig(), rand.NewSource(8))

		assert.NotEqual(t, first.Predict(state), second.Predict(state))
	})
}

func TestNetwork_TrainOnExample(t *testing.T) {
	// Given: a fresh network and a target for one state
	network := New(DefaultConfig(), rand.NewSource(2))
	input := entity.State{1, -1, 0, 0, 1, 0, 0, 0, -1}
	target := network.Predict(input)
	target[2] = 1.0
	before := squaredError(network.Predict(input), target)

	// When: the network is trained on the example repeatedly
	for i := 0; i < 200; i++ {
		network.TrainOnExample(input, target)
	}

	// Then: the prediction moves toward the target
	after := squaredError(network.Predict(input), target)
	assert.Less(t, after, before)
}

func TestNetwork_MarshalBinary(t *testing.T) {
	t.Run("Restored network predicts the same values", func(t *testing.T) {
		network := New(DefaultConfig(), rand.NewSource(3))
		state := entity.State{0, 1, 0, -1, 0, 0, 1, 0, -1}

		data, err := network.MarshalBinary()
		require.NoError(t, err)

		restored := New(DefaultConfig(), rand.NewSource(4))
		require.NoError(t, restored.UnmarshalBinary(data))

		assert.InDeltaSlice(t, network.Predict(state), restored.Predict(state), 1e-9)
	})

	t.Run("Rejects a dump with the wrong shape", func(t *testing.T) {
		other := deep.NewNeural(&deep.Config{
			Inputs:     4,
			Layout:     []int{3, 2},
			Activation: deep.ActivationReLU,
			Mode:       deep.ModeRegression,
			Weight:     deep.NewNormal(0.1, 0.0),
			Bias:       true,
		})
		data, err := other.Marshal()
		require.NoError(t, err)

		network := New(DefaultConfig(), rand.NewSource(5))
		err = network.UnmarshalBinary(data)

		require.ErrorIs(t, err, apperror.ErrModelShape)
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		network := New(DefaultConfig(), rand.NewSource(6))

		require.Error(t, network.UnmarshalBinary([]byte("not a model")))
	})
}
