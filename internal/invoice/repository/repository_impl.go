package repository

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
	"github.com/paswerklabs/paswerk/pkg/db/pagination"
)

type repo struct{}

func Provide() invoicedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) NextNumber(ctx context.Context, db *gorm.DB, year int) (string, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE invoice_sequences SET last_value = last_value + 1 WHERE year = ?`,
		year,
	)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO invoice_sequences (year, last_value) VALUES (?, 1)`,
			year,
		).Error; err != nil {
			return "", err
		}
	}

	var last int64
	if err := db.WithContext(ctx).Raw(
		`SELECT last_value FROM invoice_sequences WHERE year = ?`,
		year,
	).Scan(&last).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%05d", year, last), nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter invoicedomain.ListFilter, page pagination.Pagination) ([]*invoicedomain.Invoice, error) {
	query := db.WithContext(ctx).Model(&invoicedomain.Invoice{})
	if filter.ClientID != 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.LocationID != 0 {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	query = pagination.Apply(page, query).Order("created_at DESC, id DESC")

	var invoices []*invoicedomain.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
