package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

type RunService interface {
	Record(ctx context.Context, mode string, episodes int, startedAt time.Time, tally entity.Tally) (*entity.Run, error)
	Recent(ctx context.Context, limit int) ([]*entity.Run, error)
}

type runRepo interface {
	Create(ctx context.Context, run *entity.Run) error
	List(ctx context.Context, limit int) ([]*entity.Run, error)
}

type runService struct {
	runRepo runRepo
	now     func() time.Time
}

func NewRunService(runRepo runRepo) RunService {
	return &runService{
		runRepo: runRepo,
		now:     time.Now,
	}
}

// Record stores a finished run stamped with the current time.
func (that *runService) Record(ctx context.Context, mode string, episodes int, startedAt time.Time, tally entity.Tally) (*entity.Run, error) {
	run := &entity.Run{
		Mode:       mode,
		Episodes:   episodes,
		StartedAt:  startedAt.UTC(),
		FinishedAt: that.now().UTC(),
		Tally:      tally,
	}

	if err := that.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record %s run: %w", mode, err)
	}

	return run, nil
}

func (that *runService) Recent(ctx context.Context, limit int) ([]*entity.Run, error) {
	runs, err := that.runRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}
