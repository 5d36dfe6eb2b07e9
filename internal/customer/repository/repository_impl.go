package repository

import (
	"context"

	"gorm.io/gorm"

	customerdomain "github.com/paswerklabs/paswerk/internal/customer/domain"
)

type repo struct{}

func Provide() customerdomain.Repository {
	return &repo{}
}

func (r *repo) FindClientByID(ctx context.Context, db *gorm.DB, id int64) (*customerdomain.Client, error) {
	var c customerdomain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, kvk, address, phone, email, created_at
		 FROM clients WHERE id = ?`,
		id,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) FindLocationByID(ctx context.Context, db *gorm.DB, id int64) (*customerdomain.Location, error) {
	var l customerdomain.Location
	err := db.WithContext(ctx).Raw(
		`SELECT id, client_id, name, address, created_at
		 FROM locations WHERE id = ?`,
		id,
	).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == 0 {
		return nil, nil
	}
	return &l, nil
}
