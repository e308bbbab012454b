package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/agent"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

type ArenaConfig struct {
	Episodes        int
	ExplorationRate float64
}

// Arena pits two agents against each other without learning and counts the outcomes.
type Arena struct {
	logger *slog.Logger
	config ArenaConfig

	playerX agent.Agent
	playerO agent.Agent
	board   *entity.Board
}

func NewArena(logger *slog.Logger, config ArenaConfig, playerX, playerO agent.Agent) (*Arena, error) {
	if config.Episodes <= 0 {
		return nil, fmt.Errorf("%w: episodes must be positive, got %d", apperror.ErrInvalidConfig, config.Episodes)
	}

	if !validRate(config.ExplorationRate) {
		return nil, fmt.Errorf("%w: %w: %v", apperror.ErrInvalidConfig,
			apperror.ErrInvalidExplorationRate, config.ExplorationRate)
	}

	return &Arena{
		logger:  logger.With("component", "arena"),
		config:  config,
		playerX: playerX,
		playerO: playerO,
		board:   entity.NewBoard(),
	}, nil
}

// Run plays the configured number of games. An illegal move aborts the whole run.
func (that *Arena) Run(ctx context.Context) (entity.Tally, error) {
	var tally entity.Tally

	for _, player := range []agent.Agent{that.playerX, that.playerO} {
		if learner, ok := player.(agent.Learner); ok {
			if err := learner.SetExplorationRate(that.config.ExplorationRate); err != nil {
				return tally, fmt.Errorf("failed to set exploration rate: %w", err)
			}
		}
	}

	for episode := 0; episode < that.config.Episodes; episode++ {
		if err := ctx.Err(); err != nil {
			return tally, fmt.Errorf("arena interrupted at game %d: %w", episode, err)
		}

		if _, err := playEpisode(that.logger, that.board, that.playerX, that.playerO, 0); err != nil {
			return tally, fmt.Errorf("game %d aborted: %w", episode, err)
		}

		tally.Record(that.board.Winner())
	}

	that.logger.Info("arena finished", "games", tally.Total(), "x_wins", tally.XWins, "o_wins", tally.OWins, "draws", tally.Draws)

	return tally, nil
}
