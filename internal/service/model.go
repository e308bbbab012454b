package service

import (
	"context"
	"encoding"
	"fmt"
)

type ModelService interface {
	Save(ctx context.Context, name string, model encoding.BinaryMarshaler) error
	Load(ctx context.Context, name string, model encoding.BinaryUnmarshaler) error
}

type modelRepo interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

type modelService struct {
	modelRepo modelRepo
}

func NewModelService(modelRepo modelRepo) ModelService {
	return &modelService{
		modelRepo: modelRepo,
	}
}

func (that *modelService) Save(ctx context.Context, name string, model encoding.BinaryMarshaler) error {
	data, err := model.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode model %s: %w", name, err)
	}

	if err = that.modelRepo.Save(ctx, name, data); err != nil {
		return fmt.Errorf("failed to save model %s to storage: %w", name, err)
	}

	return nil
}

// Load replaces model with the dump stored under name. model is untouched on error.
func (that *modelService) Load(ctx context.Context, name string, model encoding.BinaryUnmarshaler) error {
	data, err := that.modelRepo.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to retrieve model %s from storage: %w", name, err)
	}

	if err = model.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("failed to decode model %s: %w", name, err)
	}

	return nil
}
