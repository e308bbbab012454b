package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockModelRepo struct {
	mock.Mock
}

func (m *mockModelRepo) Save(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *mockModelRepo) Load(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockRunRepo struct {
	mock.Mock
}

func (m *mockRunRepo) Create(ctx context.Context, run *entity.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepo) List(ctx context.Context, limit int) ([]*entity.Run, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]*entity.Run)
	return runs, args.Error(1)
}

type blob struct {
	data []byte
	err  error
}

func (b *blob) MarshalBinary() ([]byte, error) {
	return b.data, b.err
}

func (b *blob) UnmarshalBinary(data []byte) error {
	if b.err != nil {
		return b.err
	}

	b.data = append([]byte{}, data...)
	return nil
}

func TestModelService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores the encoded model", func(t *testing.T) {
		repo := new(mockModelRepo)
		repo.On("Save", ctx, "tic_x", []byte("weights")).Return(nil)

		err := NewModelService(repo).Save(ctx, "tic_x", &blob{data: []byte("weights")})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Encode failure skips storage", func(t *testing.T) {
		repo := new(mockModelRepo)
		encodeErr := errors.New("boom")

		err := NewModelService(repo).Save(ctx, "tic_x", &blob{err: encodeErr})

		require.ErrorIs(t, err, encodeErr)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestModelService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes the stored dump", func(t *testing.T) {
		repo := new(mockModelRepo)
		repo.On("Load", ctx, "tic_o").Return([]byte("weights"), nil)
		model := &blob{}

		err := NewModelService(repo).Load(ctx, "tic_o", model)

		require.NoError(t, err)
		assert.Equal(t, []byte("weights"), model.data)
	})

	t.Run("Missing model keeps the sentinel", func(t *testing.T) {
		repo := new(mockModelRepo)
		repo.On("Load", ctx, "tic_o").Return(nil, apperror.ErrModelNotFound)
		model := &blob{data: []byte("fresh")}

		err := NewModelService(repo).Load(ctx, "tic_o", model)

		require.ErrorIs(t, err, apperror.ErrModelNotFound)
		assert.Equal(t, []byte("fresh"), model.data)
	})
}

func TestRunService_Record(t *testing.T) {
	ctx := context.Background()
	finished := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	started := finished.Add(-time.Hour)

	repo := new(mockRunRepo)
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Run")).Return(nil)

	svc := &runService{runRepo: repo, now: func() time.Time { return finished }}

	run, err := svc.Record(ctx, entity.ModeArena, 100, started, entity.Tally{XWins: 60, OWins: 30, Draws: 10})

	require.NoError(t, err)
	assert.Equal(t, entity.ModeArena, run.Mode)
	assert.Equal(t, 100, run.Episodes)
	assert.Equal(t, started, run.StartedAt)
	assert.Equal(t, finished, run.FinishedAt)
	assert.Equal(t, 100, run.Tally.Total())
	repo.AssertExpectations(t)
}

func TestRunService_Recent(t *testing.T) {
	ctx := context.Background()
	stored := []*entity.Run{{ID: 2, Mode: entity.ModeTrain}, {ID: 1, Mode: entity.ModeArena}}

	repo := new(mockRunRepo)
	repo.On("List", ctx, 5).Return(stored, nil)

	runs, err := NewRunService(repo).Recent(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, stored, runs)
}
