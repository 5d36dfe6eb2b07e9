package service

import (
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/paswerklabs/paswerk/internal/billing/domain"
	"github.com/paswerklabs/paswerk/internal/config"
	"github.com/paswerklabs/paswerk/internal/holiday"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
	shiftdomain "github.com/paswerklabs/paswerk/internal/shift/domain"
)

// Segmenter partitions worked shifts into rate tiers. It is a pure
// computation: all shift and rate data must be fetched before invocation.
type Segmenter struct {
	log      *zap.Logger
	calendar holiday.Calendar
	policy   billingdomain.Policy
}

type SegmenterParam struct {
	fx.In

	Log      *zap.Logger
	Calendar holiday.Calendar
	Cfg      config.Config
}

func NewSegmenter(p SegmenterParam) (*Segmenter, error) {
	policy, err := billingdomain.ParsePolicy(p.Cfg.Billing.Policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, p.Cfg.Billing.Policy)
	}
	return &Segmenter{
		log:      p.Log.Named("billing.segmenter"),
		calendar: p.Calendar,
		policy:   policy,
	}, nil
}

// NewSegmenterWithPolicy builds a segmenter with an explicit policy, bypassing
// configuration. Used by tests and by callers that pin the policy per run.
func NewSegmenterWithPolicy(log *zap.Logger, calendar holiday.Calendar, policy billingdomain.Policy) *Segmenter {
	return &Segmenter{log: log.Named("billing.segmenter"), calendar: calendar, policy: policy}
}

// Segment classifies the shifts of one location over a period into the six
// buckets. Shifts outside the period or belonging to another location are
// skipped silently; malformed times fail the whole run.
func (s *Segmenter) Segment(shifts []shiftdomain.Shift, rates ratesdomain.RateTable, period billingdomain.Period, locationID int64) (billingdomain.Breakdown, error) {
	result, err := s.Run(shifts, rates, period, locationID)
	if err != nil {
		return nil, err
	}
	return result.Breakdown, nil
}

// Run is Segment plus the per-shift priced lines the invoice table needs.
func (s *Segmenter) Run(shifts []shiftdomain.Shift, rates ratesdomain.RateTable, period billingdomain.Period, locationID int64) (*billingdomain.Result, error) {
	breakdown := billingdomain.NewBreakdown(rates)
	lines := make([]billingdomain.Line, 0, len(shifts))

	// Both period bounds count as whole days: the end boundary is the next
	// midnight after the end date.
	windowStart := startOfDay(period.Start)
	windowEnd := startOfDay(period.End).AddDate(0, 0, 1)

	for _, shift := range shifts {
		day := startOfDay(shift.Date)
		if shift.LocationID != locationID || day.Before(windowStart) || !day.Before(windowEnd) {
			continue
		}

		start, end, err := shiftInterval(shift, day)
		if err != nil {
			return nil, err
		}

		switch s.policy {
		case billingdomain.PolicyPerHour:
			lines = append(lines, s.segmentPerHour(breakdown, shift, start, end)...)
		default:
			tier := s.classify(day, start.Hour())
			hours := end.Sub(start).Hours()
			breakdown.Add(tier, hours)
			lines = append(lines, billingdomain.Line{
				ShiftID: shift.ID,
				Date:    day,
				Tier:    tier,
				Hours:   hours,
				Rate:    breakdown[tier].Rate,
				Total:   hours * breakdown[tier].Rate,
			})
		}
	}

	return &billingdomain.Result{Breakdown: breakdown, Lines: lines}, nil
}

// segmentPerHour walks the shift in clock-hour steps, classifying every piece
// by its own start, then emits one line per tier touched.
func (s *Segmenter) segmentPerHour(breakdown billingdomain.Breakdown, shift shiftdomain.Shift, start, end time.Time) []billingdomain.Line {
	perTier := make(map[billingdomain.Tier]float64)

	for t := start; t.Before(end); {
		next := t.Truncate(time.Hour).Add(time.Hour)
		if next.After(end) {
			next = end
		}
		tier := s.classify(startOfDay(t), t.Hour())
		hours := next.Sub(t).Hours()
		breakdown.Add(tier, hours)
		perTier[tier] += hours
		t = next
	}

	lines := make([]billingdomain.Line, 0, len(perTier))
	for _, tier := range billingdomain.TierOrder {
		hours, ok := perTier[tier]
		if !ok {
			continue
		}
		lines = append(lines, billingdomain.Line{
			ShiftID: shift.ID,
			Date:    startOfDay(start),
			Tier:    tier,
			Hours:   hours,
			Rate:    breakdown[tier].Rate,
			Total:   hours * breakdown[tier].Rate,
		})
	}
	return lines
}

// classify picks the tier for a shift from its start date and hour. First
// match wins.
func (s *Segmenter) classify(date time.Time, startHour int) billingdomain.Tier {
	switch {
	case date.Month() == time.December && date.Day() == 31 && startHour >= 16:
		return billingdomain.TierNewYearEve
	case s.calendar.IsHoliday(date):
		return billingdomain.TierHoliday
	case date.Weekday() == time.Saturday || date.Weekday() == time.Sunday:
		return billingdomain.TierWeekend
	case startHour >= 22 || startHour < 6:
		return billingdomain.TierNight
	case startHour >= 18:
		return billingdomain.TierEvening
	default:
		return billingdomain.TierDay
	}
}

// shiftInterval resolves the shift's clock times against its date. An end
// before the start rolls over to the next day.
func shiftInterval(shift shiftdomain.Shift, day time.Time) (time.Time, time.Time, error) {
	startHour, startMin, err := parseClock(shift.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: shift %s start %q", billingdomain.ErrMalformedShiftTime, shift.ID, shift.StartTime)
	}
	endHour, endMin, err := parseClock(shift.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: shift %s end %q", billingdomain.ErrMalformedShiftTime, shift.ID, shift.EndTime)
	}

	start := day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
	end := day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: shift %s %s-%s", billingdomain.ErrNegativeShiftDuration, shift.ID, shift.StartTime, shift.EndTime)
	}
	return start, end, nil
}

func parseClock(raw string) (int, int, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
