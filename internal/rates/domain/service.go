package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Resolve returns the rate table in effect for the location and pass
	// type, falling back to the configured defaults when no active table
	// exists.
	Resolve(ctx context.Context, locationID int64, passType string) (RateTable, error)
}

var (
	ErrInvalidPassType    = errors.New("invalid_pass_type")
	ErrDuplicateRateTable = errors.New("duplicate_rate_table")
)
