package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	shiftdomain "github.com/paswerklabs/paswerk/internal/shift/domain"
)

type repo struct{}

func Provide() shiftdomain.Repository {
	return &repo{}
}

func (r *repo) ListForBilling(ctx context.Context, db *gorm.DB, locationID int64, start, end time.Time) ([]shiftdomain.Shift, error) {
	var shifts []shiftdomain.Shift
	err := db.WithContext(ctx).Raw(
		`SELECT id, location_id, employee_id, date, start_time, end_time, created_at
		 FROM shifts
		 WHERE location_id = ? AND date >= ? AND date < ?
		 ORDER BY date ASC, start_time ASC, id ASC`,
		locationID,
		startOfDay(start),
		startOfDay(end).AddDate(0, 0, 1),
	).Scan(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, shift *shiftdomain.Shift) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO shifts (id, location_id, employee_id, date, start_time, end_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		shift.ID,
		shift.LocationID,
		shift.EmployeeID,
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.CreatedAt,
	).Error
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
