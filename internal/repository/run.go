package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository/storage"
)

type RunRepository interface {
	Create(ctx context.Context, run *entity.Run) error
	List(ctx context.Context, limit int) ([]*entity.Run, error)
}

type dbRun struct {
	storage *storage.Storage
}

func NewRunRepository(storage *storage.Storage) RunRepository {
	return &dbRun{
		storage: storage,
	}
}

// Create stores run and sets its ID. Timestamps are kept as Unix nanoseconds.
func (that *dbRun) Create(ctx context.Context, run *entity.Run) error {
	query := `INSERT INTO runs (mode, episodes, x_wins, o_wins, draws, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := that.storage.Connection.ExecContext(ctx, query,
		run.Mode, run.Episodes, run.XWins, run.OWins, run.Draws, run.StartedAt.UnixNano(), run.FinishedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	return nil
}

// List returns up to limit runs, newest first.
func (that *dbRun) List(ctx context.Context, limit int) ([]*entity.Run, error) {
	query := `SELECT id, mode, episodes, x_wins, o_wins, draws, started_at, finished_at
		FROM runs ORDER BY id DESC LIMIT ?`

	rows, err := that.storage.Connection.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*entity.Run
	for rows.Next() {
		var (
			run                   entity.Run
			startedAt, finishedAt int64
		)
		if err = rows.Scan(&run.ID, &run.Mode, &run.Episodes, &run.XWins, &run.OWins, &run.Draws,
			&startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = time.Unix(0, startedAt).UTC()
		run.FinishedAt = time.Unix(0, finishedAt).UTC()
		runs = append(runs, &run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}
