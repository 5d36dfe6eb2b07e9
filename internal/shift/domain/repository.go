package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// ListForBilling returns the shifts for a location whose date falls in
	// [start, end] inclusive, ordered by date then start time.
	ListForBilling(ctx context.Context, db *gorm.DB, locationID int64, start, end time.Time) ([]Shift, error)
	Insert(ctx context.Context, db *gorm.DB, shift *Shift) error
}
