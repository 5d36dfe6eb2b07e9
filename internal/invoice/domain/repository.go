package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/paswerklabs/paswerk/pkg/db/pagination"
)

type ListFilter struct {
	ClientID   int64
	LocationID int64
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	// NextNumber advances the per-year sequence and returns the formatted
	// invoice number. Must run inside the insert transaction.
	NextNumber(ctx context.Context, db *gorm.DB, year int) (string, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Invoice, error)
}
