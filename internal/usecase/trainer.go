package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/agent"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

type TrainingConfig struct {
	Episodes       int
	AnnealEpisodes int
	InitialRate    float64
	FinalRate      float64
	ReportInterval int
	MoveRetries    int
}

func (that TrainingConfig) validate() error {
	switch {
	case that.Episodes <= 0:
		return fmt.Errorf("%w: episodes must be positive, got %d", apperror.ErrInvalidConfig, that.Episodes)
	case that.AnnealEpisodes < 0:
		return fmt.Errorf("%w: anneal episodes must not be negative", apperror.ErrInvalidConfig)
	case !validRate(that.InitialRate) || !validRate(that.FinalRate):
		return fmt.Errorf("%w: %w: %v -> %v", apperror.ErrInvalidConfig,
			apperror.ErrInvalidExplorationRate, that.InitialRate, that.FinalRate)
	case that.ReportInterval < 0:
		return fmt.Errorf("%w: report interval must not be negative", apperror.ErrInvalidConfig)
	case that.MoveRetries < 0:
		return fmt.Errorf("%w: move retries must not be negative", apperror.ErrInvalidConfig)
	}

	return nil
}

func validRate(rate float64) bool {
	return rate >= 0 && rate <= 1
}

// Trainer runs self-play episodes between two agents and rewards the learners among them
// once per episode: the last mover gets the outcome, the mover before it gets the outcome
// seen from the other side.
type Trainer struct {
	logger *slog.Logger
	config TrainingConfig

	playerX agent.Agent
	playerO agent.Agent
	board   *entity.Board

	tally       entity.Tally
	checkpoints []entity.Checkpoint
}

func NewTrainer(logger *slog.Logger, config TrainingConfig, playerX, playerO agent.Agent) (*Trainer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Trainer{
		logger:  logger.With("component", "trainer"),
		config:  config,
		playerX: playerX,
		playerO: playerO,
		board:   entity.NewBoard(),
	}, nil
}

// Run plays every configured episode. It stops early when ctx is done between episodes or
// when an agent breaks the legal-action contract.
func (that *Trainer) Run(ctx context.Context) (entity.Tally, error) {
	log := that.logger.With("method", "Run")

	log.Info("training started",
		"episodes", that.config.Episodes,
		"anneal_episodes", that.config.AnnealEpisodes,
		"initial_rate", that.config.InitialRate,
		"final_rate", that.config.FinalRate,
	)

	for episode := 0; episode < that.config.Episodes; episode++ {
		if err := ctx.Err(); err != nil {
			return that.tally, fmt.Errorf("training interrupted at episode %d: %w", episode, err)
		}

		winner, err := that.PlayEpisode(episode)
		if err != nil {
			return that.tally, fmt.Errorf("episode %d aborted: %w", episode, err)
		}

		that.tally.Record(winner)

		if that.isCheckpoint(episode) {
			that.checkpoint(log, episode)
		}
	}

	log.Info("training finished", "x_wins", that.tally.XWins, "o_wins", that.tally.OWins, "draws", that.tally.Draws)

	return that.tally, nil
}

// PlayEpisode plays one game at the annealed exploration rate for episode, rewards the
// learners and returns the winner (EmptyCell for a draw).
func (that *Trainer) PlayEpisode(episode int) (entity.Mark, error) {
	rate := that.ExplorationRate(episode)
	for _, player := range []agent.Agent{that.playerX, that.playerO} {
		if learner, ok := player.(agent.Learner); ok {
			if err := learner.SetExplorationRate(rate); err != nil {
				return entity.EmptyCell, fmt.Errorf("failed to set exploration rate: %w", err)
			}
		}
	}

	trajectory, err := playEpisode(that.logger, that.board, that.playerX, that.playerO, that.config.MoveRetries)
	if err != nil {
		return entity.EmptyCell, err
	}

	winner := that.board.Winner()
	if err = that.assignRewards(trajectory, winner); err != nil {
		return winner, err
	}

	that.logger.Debug("episode finished", "episode", episode, "rate", rate, "winner", winner, "moves", len(trajectory))

	return winner, nil
}

func (that *Trainer) ExplorationRate(episode int) float64 {
	return Anneal(that.config.InitialRate, that.config.FinalRate, that.config.AnnealEpisodes, episode)
}

func (that *Trainer) Tally() entity.Tally {
	return that.tally
}

func (that *Trainer) Checkpoints() []entity.Checkpoint {
	return that.checkpoints
}

func (that *Trainer) assignRewards(trajectory entity.Trajectory, winner entity.Mark) error {
	if len(trajectory) == 0 {
		return nil
	}

	lastReward, previousReward := DrawReward, DrawReward
	if winner != entity.EmptyCell {
		lastReward, previousReward = WinReward, LossReward
	}

	last := trajectory[len(trajectory)-1]
	if err := that.reward(last, lastReward); err != nil {
		return err
	}

	previous, ok := trajectory.LastBy(last.Player.Opponent())
	if !ok {
		return nil
	}

	return that.reward(previous, previousReward)
}

func (that *Trainer) reward(step entity.Step, value float64) error {
	player := that.playerX
	if step.Player == entity.PlayerO {
		player = that.playerO
	}

	learner, ok := player.(agent.Learner)
	if !ok {
		return nil
	}

	if err := learner.Reward(step.Action, value, step.Before, step.After); err != nil {
		return fmt.Errorf("failed to reward %s: %w", step.Player, err)
	}

	return nil
}

func (that *Trainer) isCheckpoint(episode int) bool {
	if episode == that.config.Episodes-1 {
		return true
	}

	return that.config.ReportInterval > 0 && (episode+1)%that.config.ReportInterval == 0
}

func (that *Trainer) checkpoint(log *slog.Logger, episode int) {
	point := entity.Checkpoint{
		Episode:         episode + 1,
		ExplorationRate: that.ExplorationRate(episode),
		Tally:           that.tally,
	}
	that.checkpoints = append(that.checkpoints, point)

	log.Info("training progress",
		"episode", point.Episode,
		"rate", point.ExplorationRate,
		"x_wins", point.XWins,
		"o_wins", point.OWins,
		"draws", point.Draws,
	)
}
