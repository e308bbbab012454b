package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
)

type ModelRepository interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

type dbModel struct {
	client *redis.Client
}

// NewModelRepository keeps model dumps in Redis under "model:<name>".
func NewModelRepository(client *redis.Client) ModelRepository {
	return &dbModel{
		client: client,
	}
}

func (that *dbModel) Save(ctx context.Context, name string, data []byte) error {
	modelKey := "model:" + name

	if err := that.client.Set(ctx, modelKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}

	return nil
}

func (that *dbModel) Load(ctx context.Context, name string) ([]byte, error) {
	modelKey := "model:" + name

	data, err := that.client.Get(ctx, modelKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrModelNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	return data, nil
}

type fileModel struct {
	dir string
}

// NewFileModelRepository keeps model dumps as "<name>.bin" files. Relative names are
// resolved against dir.
func NewFileModelRepository(dir string) ModelRepository {
	return &fileModel{
		dir: dir,
	}
}

func (that *fileModel) Save(_ context.Context, name string, data []byte) error {
	path := that.path(name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}

	return nil
}

func (that *fileModel) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(that.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrModelNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	return data, nil
}

func (that *fileModel) path(name string) string {
	file := name + ".bin"
	if filepath.IsAbs(file) || that.dir == "" {
		return file
	}

	return filepath.Join(that.dir, file)
}
