package repository

import (
	"context"

	"user_manager/internal/model"
)

// RecordRepository defines persistence operations for record collections.
// FindByID and Patch return a nil record when the id does not exist.
type RecordRepository interface {
	FindAll(ctx context.Context, collection string) ([]model.Record, error)
	FindByID(ctx context.Context, collection string, id int64) (model.Record, error)
	Create(ctx context.Context, collection string, rec model.Record) (model.Record, error)
	Patch(ctx context.Context, collection string, id int64, patch model.Record) (model.Record, error)
	Delete(ctx context.Context, collection string, id int64) (bool, error)
}
