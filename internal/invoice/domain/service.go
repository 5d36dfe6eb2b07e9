package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	billingdomain "github.com/paswerklabs/paswerk/internal/billing/domain"
	"github.com/paswerklabs/paswerk/pkg/db/pagination"
)

// GenerateRequest describes one billing run. VAT and payment term fall back
// to the configured defaults when nil.
type GenerateRequest struct {
	ClientID    int64     `json:"client_id"`
	LocationID  int64     `json:"location_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	PassType    string    `json:"pass_type"`

	VATRatePercent  *float64 `json:"vat_rate_percent,omitempty"`
	PaymentTermDays *int     `json:"payment_term_days,omitempty"`
}

type ListRequest struct {
	ClientID   int64 `json:"client_id"`
	LocationID int64 `json:"location_id"`
	pagination.Pagination
}

type ListResponse struct {
	pagination.PageInfo
	Invoices []*Invoice `json:"invoices"`
}

type Service interface {
	// Generate runs the engine and persists the invoice with a sequential
	// number assigned at insert time.
	Generate(ctx context.Context, req GenerateRequest) (*Invoice, error)
	// Preview runs the engine without persisting; the rendered text carries
	// the PENDING number placeholder.
	Preview(ctx context.Context, req GenerateRequest) (*Invoice, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	// ParseBreakdown recovers the tier breakdown from the stored body text,
	// for legacy rows persisted without a structured breakdown.
	ParseBreakdown(ctx context.Context, id snowflake.ID) (billingdomain.Breakdown, error)
}

var (
	ErrInvoiceNotFound      = errors.New("invoice_not_found")
	ErrInvalidPeriod        = errors.New("invalid_period")
	ErrInvalidVATRate       = errors.New("invalid_vat_rate")
	ErrInvalidPaymentTerm   = errors.New("invalid_payment_term")
	ErrMissingClient        = errors.New("missing_client")
	ErrMissingLocation      = errors.New("missing_location")
	ErrMalformedInvoiceText = errors.New("malformed_invoice_text")
)
