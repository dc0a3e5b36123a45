package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// DayHours opening hours for one weekday
type DayHours struct {
	Open  types.TimeString
	Close types.TimeString
}

// Interval returns hours as a half-open interval
func (h DayHours) Interval() Interval {
	return Interval{Start: h.Open, End: h.Close}
}

// BusinessHours opening hours per weekday. A missing weekday means closed.
type BusinessHours map[time.Weekday]DayHours

// For returns hours for the weekday of date
func (b BusinessHours) For(date time.Time) (DayHours, bool) {
	h, ok := b[date.Weekday()]
	return h, ok
}

// Weekdays open weekdays in ascending order (Sunday first)
func (b BusinessHours) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(b))
	for wd := range b {
		days = append(days, wd)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// CalendarRules booking rules of the studio calendar
type CalendarRules struct {
	Hours                  BusinessHours
	SlotGranularityMinutes int
	LeadDays               int
	CancellationWindow     time.Duration
	UpdatedAt              *time.Time
}

// DefaultCalendarRules rules with default values and no opening hours
func DefaultCalendarRules() CalendarRules {
	return CalendarRules{
		Hours:                  BusinessHours{},
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		LeadDays:               DefaultLeadDays,
		CancellationWindow:     DefaultCancellationWindow,
	}
}

// Validate checks the rules invariants
func (r CalendarRules) Validate() error {
	if r.SlotGranularityMinutes < MinSlotGranularityMinutes || r.SlotGranularityMinutes > MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slot granularity must be between %d and %d minutes",
			ErrValidation, MinSlotGranularityMinutes, MaxSlotGranularityMinutes)
	}
	if r.LeadDays < 0 || r.LeadDays > MaxLeadDays {
		return fmt.Errorf("%w: lead days must be between 0 and %d", ErrValidation, MaxLeadDays)
	}
	if r.CancellationWindow < 0 || r.CancellationWindow > MaxCancellationWindowHours*time.Hour {
		return fmt.Errorf("%w: cancellation window must be between 0 and %d hours",
			ErrValidation, MaxCancellationWindowHours)
	}
	for wd, h := range r.Hours {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: unknown weekday %d", ErrValidation, wd)
		}
		if !h.Interval().IsValid() {
			return fmt.Errorf("%w: %s opening time must be before closing time", ErrValidation, wd)
		}
	}
	return nil
}

// EarliestBookableDate first date a customer may book, given today
func (r CalendarRules) EarliestBookableDate(today time.Time) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d+r.LeadDays, 0, 0, 0, 0, today.Location())
}

// DateIn midnight of the calendar date of t, placed in loc.
// The year/month/day of t are kept as is, no conversion happens.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
