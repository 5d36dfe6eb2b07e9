// Package domain defines the rate tiers and the per-period breakdown the
// segmenter produces.
package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
)

// Tier is one of the six mutually exclusive rate categories.
type Tier string

const (
	TierDay        Tier = "day"
	TierEvening    Tier = "evening"
	TierNight      Tier = "night"
	TierWeekend    Tier = "weekend"
	TierHoliday    Tier = "holiday"
	TierNewYearEve Tier = "new_year_eve"
)

// TierOrder is the display and accumulation order of the six buckets.
var TierOrder = []Tier{TierDay, TierEvening, TierNight, TierWeekend, TierHoliday, TierNewYearEve}

// TierPrecedence is the classification order: first match wins. It also
// resolves ties when mapping a bare rate value back to a tier.
var TierPrecedence = []Tier{TierNewYearEve, TierHoliday, TierWeekend, TierNight, TierEvening, TierDay}

// Bucket accumulates the hours and money assigned to one tier. A bucket with
// zero hours still carries its rate for display.
type Bucket struct {
	Hours float64 `json:"hours"`
	Rate  float64 `json:"rate"`
	Total float64 `json:"total"`
}

// Breakdown is exactly the six buckets, keyed by tier name.
type Breakdown map[Tier]Bucket

// NewBreakdown returns the six empty buckets with their rates filled in.
func NewBreakdown(rates ratesdomain.RateTable) Breakdown {
	b := make(Breakdown, len(TierOrder))
	for _, tier := range TierOrder {
		b[tier] = Bucket{Rate: RateFor(rates, tier)}
	}
	return b
}

// Add books hours into a tier at the bucket's rate.
func (b Breakdown) Add(tier Tier, hours float64) {
	bucket := b[tier]
	bucket.Hours += hours
	bucket.Total += hours * bucket.Rate
	b[tier] = bucket
}

// Subtotal sums the six bucket totals at full float precision.
func (b Breakdown) Subtotal() float64 {
	var sum float64
	for _, tier := range TierOrder {
		sum += b[tier].Total
	}
	return sum
}

// TotalHours sums the hours across all buckets.
func (b Breakdown) TotalHours() float64 {
	var sum float64
	for _, tier := range TierOrder {
		sum += b[tier].Hours
	}
	return sum
}

// RateFor maps a tier to its per-hour rate in the table.
func RateFor(rates ratesdomain.RateTable, tier Tier) float64 {
	switch tier {
	case TierEvening:
		return rates.Evening
	case TierNight:
		return rates.Night
	case TierWeekend:
		return rates.Weekend
	case TierHoliday:
		return rates.Holiday
	case TierNewYearEve:
		return rates.NewYearsEve
	default:
		return rates.Base
	}
}

// TierForRate maps a rate value back to a tier, used when re-parsing stored
// invoice text. Identical rates across tiers resolve in precedence order.
func TierForRate(rates ratesdomain.RateTable, rate float64) (Tier, bool) {
	for _, tier := range TierPrecedence {
		if math.Abs(RateFor(rates, tier)-rate) < 0.005 {
			return tier, true
		}
	}
	return "", false
}

// Line is one priced row of the invoice table. Whole-shift classification
// yields one line per shift; per-hour splitting yields one line per shift and
// tier.
type Line struct {
	ShiftID snowflake.ID `json:"shift_id"`
	Date    time.Time    `json:"date"`
	Tier    Tier         `json:"tier"`
	Hours   float64      `json:"hours"`
	Rate    float64      `json:"rate"`
	Total   float64      `json:"total"`
}

// Period is an inclusive calendar-day billing window.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Policy selects how a shift spanning tier boundaries is priced.
type Policy string

const (
	// PolicyWholeShift prices the entire shift at the tier of its start
	// time. This matches the invoices already in the field.
	PolicyWholeShift Policy = "whole_shift"
	// PolicyPerHour splits the shift at clock-hour boundaries and prices
	// each piece by its own start.
	PolicyPerHour Policy = "per_hour"
)

func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case PolicyWholeShift, "":
		return PolicyWholeShift, nil
	case PolicyPerHour:
		return PolicyPerHour, nil
	default:
		return "", ErrInvalidPolicy
	}
}

// Result carries the breakdown plus the per-shift lines the renderer needs.
type Result struct {
	Breakdown Breakdown `json:"breakdown"`
	Lines     []Line    `json:"lines"`
}

var (
	ErrInvalidPolicy         = errors.New("invalid_classification_policy")
	ErrMalformedShiftTime    = errors.New("malformed_shift_time")
	ErrNegativeShiftDuration = errors.New("negative_shift_duration")
)
