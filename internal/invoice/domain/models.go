// Package domain contains the invoice records produced by a billing run.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	billingdomain "github.com/paswerklabs/paswerk/internal/billing/domain"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
)

// Invoice is immutable once generated; regenerating for the same parameters
// produces a new row. BodyText is the rendered document and doubles as the
// system of record when the structured breakdown is missing.
type Invoice struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	Number string       `gorm:"type:text;uniqueIndex" json:"number"`

	ClientID   int64                `gorm:"not null;index" json:"client_id"`
	LocationID int64                `gorm:"not null;index" json:"location_id"`
	PassType   ratesdomain.PassType `gorm:"type:text;not null" json:"pass_type"`

	PeriodStart time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null" json:"period_end"`
	IssueDate   time.Time `gorm:"not null" json:"issue_date"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`

	VATRatePercent float64 `gorm:"not null" json:"vat_rate_percent"`
	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	VATAmount      float64 `gorm:"not null" json:"vat_amount"`
	TotalAmount    float64 `gorm:"not null" json:"total_amount"`

	Breakdown billingdomain.Breakdown `gorm:"serializer:json" json:"breakdown"`
	Lines     []billingdomain.Line    `gorm:"serializer:json" json:"lines"`
	BodyText  string                  `gorm:"type:text" json:"body_text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Totals is the monetary summary derived from a breakdown.
type Totals struct {
	Subtotal    float64   `json:"subtotal"`
	VATAmount   float64   `json:"vat_amount"`
	TotalAmount float64   `json:"total_amount"`
	DueDate     time.Time `json:"due_date"`
}
