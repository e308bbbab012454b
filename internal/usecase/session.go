package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/agent"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

type SessionConfig struct {
	HumanMark    entity.Mark
	ModelRetries int
	ThinkDelay   time.Duration
	Colored      bool
}

// Session is one interactive game between a human and a model. X always opens.
type Session struct {
	logger *slog.Logger
	config SessionConfig

	human agent.Agent
	model agent.Agent
	board *entity.Board
	out   io.Writer
}

func NewSession(logger *slog.Logger, config SessionConfig, human, model agent.Agent, out io.Writer) (*Session, error) {
	if !config.HumanMark.IsPlayer() {
		return nil, fmt.Errorf("%w: human mark %q", apperror.ErrInvalidConfig, config.HumanMark)
	}

	if config.ModelRetries < 0 {
		return nil, fmt.Errorf("%w: model retries must not be negative", apperror.ErrInvalidConfig)
	}

	return &Session{
		logger: logger.With("component", "session"),
		config: config,
		human:  human,
		model:  model,
		board:  entity.NewBoard(),
		out:    out,
	}, nil
}

// Play runs the game to the end and returns the winner, EmptyCell for a draw.
func (that *Session) Play(ctx context.Context) (entity.Mark, error) {
	that.board.Reset()

	for mark := entity.PlayerX; !that.board.IsTerminal(); mark = mark.Opponent() {
		var err error
		if mark == that.config.HumanMark {
			err = that.humanTurn(mark)
		} else {
			err = that.modelTurn(ctx, mark)
		}

		if err != nil {
			return entity.EmptyCell, err
		}
	}

	winner := that.board.Winner()
	that.board.Display(that.out, that.config.Colored)

	if winner == entity.EmptyCell {
		fmt.Fprintln(that.out, "The game ends in a draw")
	} else {
		fmt.Fprintf(that.out, "Game is over. Winner is %s\n", winner)
	}

	return winner, nil
}

func (that *Session) humanTurn(mark entity.Mark) error {
	that.board.Display(that.out, that.config.Colored)
	fmt.Fprintf(that.out, "You are %s. Select your row and column\n", mark)

	_, err := playTurn(that.logger, that.board, that.human, mark, turnPolicy{
		retries: UnlimitedRetries,
		onReject: func(int) {
			fmt.Fprintln(that.out, "Not valid. Try again.")
		},
	})
	if err != nil {
		return fmt.Errorf("human move failed: %w", err)
	}

	return nil
}

func (that *Session) modelTurn(ctx context.Context, mark entity.Mark) error {
	that.board.Display(that.out, that.config.Colored)
	fmt.Fprintln(that.out, "The AI is playing...")

	if that.config.ThinkDelay > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("session interrupted: %w", ctx.Err())
		case <-time.After(that.config.ThinkDelay):
		}
	}

	_, err := playTurn(that.logger, that.board, that.model, mark, turnPolicy{retries: that.config.ModelRetries})
	if err != nil {
		return fmt.Errorf("model move failed: %w", err)
	}

	return nil
}
