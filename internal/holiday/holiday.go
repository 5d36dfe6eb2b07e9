// Package holiday decides whether a calendar day is a public holiday.
//
// The scheduling system never shipped a holiday calendar, so the default
// implementation reports no holidays and the holiday tier is only reachable
// when dates are configured explicitly.
package holiday

import "time"

type Calendar interface {
	IsHoliday(date time.Time) bool
}

// NoneCalendar is the historical behavior: no day is a holiday.
type NoneCalendar struct{}

func (NoneCalendar) IsHoliday(time.Time) bool { return false }

// StaticCalendar marks an explicit set of dates as holidays.
type StaticCalendar struct {
	dates map[string]struct{}
}

const dayKey = "2006-01-02"

func NewStaticCalendar(dates []time.Time) *StaticCalendar {
	c := &StaticCalendar{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		c.dates[d.Format(dayKey)] = struct{}{}
	}
	return c
}

func (c *StaticCalendar) IsHoliday(date time.Time) bool {
	_, ok := c.dates[date.Format(dayKey)]
	return ok
}
