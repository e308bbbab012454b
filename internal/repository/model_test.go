package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelRepository_Redis(t *testing.T) {
	t.Run("Save_Then_Load", func(t *testing.T) {
		ctx, st := suite.New(t)

		modelRepo := NewModelRepository(st.Storage)

		// Given: a stored model dump
		err := modelRepo.Save(ctx, "agent_x", []byte(`{"weights":[]}`))
		require.NoError(t, err)

		// When: Load is called with the same name
		data, err := modelRepo.Load(ctx, "agent_x")

		// Then: the same bytes come back
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"weights":[]}`), data)
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		modelRepo := NewModelRepository(st.Storage)

		_, err := modelRepo.Load(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrModelNotFound)
	})
}

func TestModelRepository_File(t *testing.T) {
	ctx := context.Background()

	t.Run("Relative names live under the directory", func(t *testing.T) {
		dir := t.TempDir()
		modelRepo := NewFileModelRepository(dir)

		require.NoError(t, modelRepo.Save(ctx, "nested/tic_x", []byte("abc")))

		assert.FileExists(t, filepath.Join(dir, "nested", "tic_x.bin"))
		data, err := modelRepo.Load(ctx, "nested/tic_x")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("Absolute names ignore the directory", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "tic_o")
		modelRepo := NewFileModelRepository("ignored")

		require.NoError(t, modelRepo.Save(ctx, base, []byte("xyz")))

		assert.FileExists(t, base+".bin")
	})

	t.Run("Missing file is ErrModelNotFound", func(t *testing.T) {
		modelRepo := NewFileModelRepository(t.TempDir())

		_, err := modelRepo.Load(ctx, "nope")

		require.ErrorIs(t, err, apperror.ErrModelNotFound)
	})
}
