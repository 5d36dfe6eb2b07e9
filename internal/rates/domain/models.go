// Package domain contains the rate card models for pass-based billing.
package domain

import (
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PassType selects a client rate card. Two cards exist in the field.
type PassType string

const (
	PassTypeBlue PassType = "blue"
	PassTypeGrey PassType = "grey"
)

// ParsePassType normalizes user input to a known pass type.
func ParsePassType(raw string) (PassType, error) {
	switch PassType(strings.ToLower(strings.TrimSpace(raw))) {
	case PassTypeBlue:
		return PassTypeBlue, nil
	case PassTypeGrey:
		return PassTypeGrey, nil
	default:
		return "", ErrInvalidPassType
	}
}

// RateTable holds the six per-hour rates in effect for a (location, pass type)
// pair. At most one active row may exist per pair.
type RateTable struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	LocationID int64        `gorm:"not null;index:idx_rate_tables_key" json:"location_id"`
	PassType   PassType     `gorm:"type:text;not null;index:idx_rate_tables_key" json:"pass_type"`

	Base        float64 `gorm:"not null" json:"base"`
	Evening     float64 `gorm:"not null" json:"evening"`
	Night       float64 `gorm:"not null" json:"night"`
	Weekend     float64 `gorm:"not null" json:"weekend"`
	Holiday     float64 `gorm:"not null" json:"holiday"`
	NewYearsEve float64 `gorm:"not null" json:"new_years_eve"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (RateTable) TableName() string { return "rate_tables" }

// Markups over the base rate for the derived tiers.
const (
	EveningMarkup  = 1.10
	NightMarkup    = 1.20
	WeekendMarkup  = 1.35
	HolidayMarkup  = 1.50
	NewYearsMarkup = 2.00
)

// TableFromBase derives a full rate table from a base hourly rate using the
// fixed markups, rounded to whole cents.
func TableFromBase(base float64) RateTable {
	return RateTable{
		Base:        round2(base),
		Evening:     round2(base * EveningMarkup),
		Night:       round2(base * NightMarkup),
		Weekend:     round2(base * WeekendMarkup),
		Holiday:     round2(base * HolidayMarkup),
		NewYearsEve: round2(base * NewYearsMarkup),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
