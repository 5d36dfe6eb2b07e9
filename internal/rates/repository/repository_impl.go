package repository

import (
	"context"

	"gorm.io/gorm"

	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
)

type repo struct{}

func Provide() ratesdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, table *ratesdomain.RateTable) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO rate_tables (
			id, location_id, pass_type,
			base, evening, night, weekend, holiday, new_years_eve,
			active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		table.ID,
		table.LocationID,
		table.PassType,
		table.Base,
		table.Evening,
		table.Night,
		table.Weekend,
		table.Holiday,
		table.NewYearsEve,
		table.Active,
		table.CreatedAt,
		table.UpdatedAt,
	).Error
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB, locationID int64, passType ratesdomain.PassType) ([]ratesdomain.RateTable, error) {
	var tables []ratesdomain.RateTable
	err := db.WithContext(ctx).Raw(
		`SELECT id, location_id, pass_type,
		 base, evening, night, weekend, holiday, new_years_eve,
		 active, created_at, updated_at
		 FROM rate_tables
		 WHERE location_id = ? AND pass_type = ? AND active`,
		locationID,
		passType,
	).Scan(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *repo) LocationExists(ctx context.Context, db *gorm.DB, locationID int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM locations WHERE id = ?`,
		locationID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
