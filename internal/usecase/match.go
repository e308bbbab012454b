package usecase

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/agent"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

const (
	WinReward  = 1.0
	LossReward = -1.0
	DrawReward = 0.5
)

// UnlimitedRetries keeps asking the agent until the board accepts its move.
const UnlimitedRetries = -1

type turnPolicy struct {
	retries  int
	onReject func(action int)
}

// playTurn asks mover for an action on its own encoding of board and places it.
// A rejected action is retried up to policy.retries times; beyond that the agent has
// broken the legal-action contract.
func playTurn(logger *slog.Logger, board *entity.Board, mover agent.Agent, mark entity.Mark, policy turnPolicy) (entity.Step, error) {
	before := board.Encode(mark)

	for attempt := 0; ; attempt++ {
		action, err := mover.SelectMove(before.Clone())
		if err != nil {
			return entity.Step{}, fmt.Errorf("agent %s failed to select move: %w", mark, err)
		}

		if board.PlaceAction(action, mark) {
			return entity.Step{
				Player: mark,
				Before: before,
				Action: action,
				After:  board.Encode(mark),
			}, nil
		}

		if policy.onReject != nil {
			policy.onReject(action)
		}

		switch {
		case policy.retries == 0:
			return entity.Step{}, fmt.Errorf("%w: %s played %d", apperror.ErrIllegalAction, mark, action)
		case policy.retries > 0 && attempt >= policy.retries:
			return entity.Step{}, fmt.Errorf("%w: %w: %s after %d attempts, last %d",
				apperror.ErrIllegalAction, apperror.ErrRetryLimit, mark, attempt+1, action)
		}

		logger.Warn("agent move rejected, retrying", "mark", mark, "action", action, "attempt", attempt+1)
	}
}

// playEpisode resets board and alternates X (even move counts) and O until the game ends.
func playEpisode(logger *slog.Logger, board *entity.Board, playerX, playerO agent.Agent, retries int) (entity.Trajectory, error) {
	board.Reset()
	trajectory := make(entity.Trajectory, 0, entity.BoardCells)

	for moves := 0; !board.IsTerminal(); moves++ {
		mark, mover := entity.PlayerX, playerX
		if moves%2 == 1 {
			mark, mover = entity.PlayerO, playerO
		}

		step, err := playTurn(logger, board, mover, mark, turnPolicy{retries: retries})
		if err != nil {
			return trajectory, fmt.Errorf("move %d: %w", moves, err)
		}

		trajectory = append(trajectory, step)
	}

	return trajectory, nil
}
