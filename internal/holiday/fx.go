package holiday

import (
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/paswerklabs/paswerk/internal/config"
)

var Module = fx.Module("holiday",
	fx.Provide(NewCalendar),
)

// NewCalendar builds the calendar from configured dates; an empty list keeps
// the no-holiday behavior.
func NewCalendar(cfg config.Config) (Calendar, error) {
	if len(cfg.Billing.Holidays) == 0 {
		return NoneCalendar{}, nil
	}
	dates := make([]time.Time, 0, len(cfg.Billing.Holidays))
	for _, raw := range cfg.Billing.Holidays {
		d, err := time.Parse(dayKey, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	return NewStaticCalendar(dates), nil
}
