package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindClientByID(ctx context.Context, db *gorm.DB, id int64) (*Client, error)
	FindLocationByID(ctx context.Context, db *gorm.DB, id int64) (*Location, error)
}
