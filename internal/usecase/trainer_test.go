package usecase

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/agent"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/qnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func trainingConfig(episodes int) TrainingConfig {
	return TrainingConfig{
		Episodes:       episodes,
		AnnealEpisodes: AnnealHorizon(episodes, 0.4),
		InitialRate:    1.0,
		FinalRate:      0.1,
	}
}

func TestNewTrainer(t *testing.T) {
	for name, config := range map[string]TrainingConfig{
		"zero episodes":     {Episodes: 0},
		"negative episodes": {Episodes: -5},
		"rate above one":    {Episodes: 1, InitialRate: 1.5},
		"negative rate":     {Episodes: 1, FinalRate: -0.1},
		"negative retries":  {Episodes: 1, MoveRetries: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewTrainer(discardLogger(), config, constantAgent(0), constantAgent(1))

			require.ErrorIs(t, err, apperror.ErrInvalidConfig)
		})
	}
}

func TestTrainer_PlayEpisode(t *testing.T) {
	t.Run("Winner's last move is rewarded and loser's last move punished", func(t *testing.T) {
		// Given: X completes the top row on its third move
		playerX := newRecordingLearner(0, 1, 2)
		playerO := newRecordingLearner(3, 4)
		trainer, err := NewTrainer(discardLogger(), trainingConfig(1), playerX, playerO)
		require.NoError(t, err)

		// When: one episode is played
		winner, err := trainer.PlayEpisode(0)

		// Then: each side got exactly one reward for its final move
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, winner)
		require.Len(t, playerX.rewards, 1)
		require.Len(t, playerO.rewards, 1)
		assert.Equal(t, 2, playerX.rewards[0].action)
		assert.InDelta(t, WinReward, playerX.rewards[0].value, 1e-12)
		assert.Equal(t, entity.State{1, 1, 0, -1, -1, 0, 0, 0, 0}, playerX.rewards[0].before)
		assert.Equal(t, 4, playerO.rewards[0].action)
		assert.InDelta(t, LossReward, playerO.rewards[0].value, 1e-12)
		assert.Equal(t, entity.State{-1, -1, 0, 1, 0, 0, 0, 0, 0}, playerO.rewards[0].before)
	})

	t.Run("Draw rewards both final moves", func(t *testing.T) {
		playerX := newRecordingLearner(0, 2, 3, 7, 8)
		playerO := newRecordingLearner(1, 4, 5, 6)
		trainer, err := NewTrainer(discardLogger(), trainingConfig(1), playerX, playerO)
		require.NoError(t, err)

		winner, err := trainer.PlayEpisode(0)

		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, winner)
		require.Len(t, playerX.rewards, 1)
		require.Len(t, playerO.rewards, 1)
		assert.Equal(t, 8, playerX.rewards[0].action)
		assert.Equal(t, 6, playerO.rewards[0].action)
		assert.InDelta(t, DrawReward, playerX.rewards[0].value, 1e-12)
		assert.InDelta(t, DrawReward, playerO.rewards[0].value, 1e-12)
	})

	t.Run("Only learners are rewarded", func(t *testing.T) {
		playerX := newRecordingLearner(3, 4)
		trainer, err := NewTrainer(discardLogger(), trainingConfig(1), playerX, agent.NewScriptedAgent(0, 1, 2))
		require.NoError(t, err)

		_, err = trainer.PlayEpisode(0)

		require.NoError(t, err)
		require.Len(t, playerX.rewards, 1)
	})

	t.Run("Illegal action aborts the episode", func(t *testing.T) {
		playerX := newRecordingLearner(4)
		trainer, err := NewTrainer(discardLogger(), trainingConfig(1), playerX, constantAgent(4))
		require.NoError(t, err)

		_, err = trainer.PlayEpisode(0)

		require.ErrorIs(t, err, apperror.ErrIllegalAction)
		assert.Empty(t, playerX.rewards)
	})
}

func TestTrainer_Run(t *testing.T) {
	t.Run("Anneals both learners and tallies results", func(t *testing.T) {
		// Given: four episodes with a horizon of two
		playerX := newRecordingLearner(0, 1, 2)
		playerO := newRecordingLearner(3, 4)
		config := TrainingConfig{Episodes: 4, AnnealEpisodes: 2, InitialRate: 1.0, FinalRate: 0.1, ReportInterval: 2}
		trainer, err := NewTrainer(discardLogger(), config, playerX, playerO)
		require.NoError(t, err)

		// When: training runs
		tally, err := trainer.Run(context.Background())

		// Then: the schedule was applied identically and every game counted
		require.NoError(t, err)
		assert.Equal(t, entity.Tally{XWins: 4}, tally)
		assert.InDeltaSlice(t, []float64{1.0, 0.55, 0.1, 0.1}, playerX.rates, 1e-12)
		assert.Equal(t, playerX.rates, playerO.rates)
		assert.Len(t, playerX.rewards, 4)

		checkpoints := trainer.Checkpoints()
		require.Len(t, checkpoints, 2)
		assert.Equal(t, 2, checkpoints[0].Episode)
		assert.Equal(t, entity.Tally{XWins: 2}, checkpoints[0].Tally)
		assert.Equal(t, 4, checkpoints[1].Episode)
	})

	t.Run("Stops on a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		trainer, err := NewTrainer(discardLogger(), trainingConfig(10), newRecordingLearner(), newRecordingLearner())
		require.NoError(t, err)

		tally, err := trainer.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, tally.Total())
	})

	t.Run("Self-play with real networks completes", func(t *testing.T) {
		logger := discardLogger()
		playerX := agent.NewLearningAgent(logger, qnet.New(qnet.DefaultConfig(), rand.NewSource(11)), rand.NewSource(1))
		playerO := agent.NewLearningAgent(logger, qnet.New(qnet.DefaultConfig(), rand.NewSource(12)), rand.NewSource(2))
		trainer, err := NewTrainer(logger, trainingConfig(30), playerX, playerO)
		require.NoError(t, err)

		tally, err := trainer.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 30, tally.Total())
		assert.InDelta(t, 0.1, playerX.ExplorationRate(), 1e-12)
	})
}
