package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, table *RateTable) error
	// FindActive returns every active row for the pair; the service treats
	// more than one row as a data-integrity failure.
	FindActive(ctx context.Context, db *gorm.DB, locationID int64, passType PassType) ([]RateTable, error)
	LocationExists(ctx context.Context, db *gorm.DB, locationID int64) (bool, error)
}
