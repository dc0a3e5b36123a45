package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// Источник правил календаря
const (
	SourceStored  = "stored"
	SourceDefault = "default"
)

// DayHours часы работы на день недели
type DayHours struct {
	Weekday string `json:"weekday"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

// CalendarResponse правила календаря
type CalendarResponse struct {
	Timezone                  string     `json:"timezone"`
	Hours                     []DayHours `json:"hours"`
	SlotGranularityMinutes    int        `json:"slotGranularityMinutes"`
	LeadDays                  int        `json:"leadDays"`
	CancellationWindowMinutes int        `json:"cancellationWindowMinutes"`
	Source                    string     `json:"source"`
	UpdatedAt                 *time.Time `json:"updatedAt,omitempty"`
}

// UpdateCalendarRequest запрос на изменение правил
// Поля со значением nil не меняются, Hours != nil заменяет расписание целиком
type UpdateCalendarRequest struct {
	Hours                     []DayHours
	SlotGranularityMinutes    *int
	LeadDays                  *int
	CancellationWindowMinutes *int
}

// ApplyTo применяет изменения к правилам
func (r *UpdateCalendarRequest) ApplyTo(rules *domain.CalendarRules) error {
	if r.Hours != nil {
		hours, err := ToBusinessHours(r.Hours)
		if err != nil {
			return err
		}
		rules.Hours = hours
	}
	if r.SlotGranularityMinutes != nil {
		rules.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.LeadDays != nil {
		rules.LeadDays = *r.LeadDays
	}
	if r.CancellationWindowMinutes != nil {
		rules.CancellationWindow = time.Duration(*r.CancellationWindowMinutes) * time.Minute
	}
	return nil
}

// ToBusinessHours конвертирует DTO в доменное расписание
func ToBusinessHours(days []DayHours) (domain.BusinessHours, error) {
	hours := make(domain.BusinessHours, len(days))
	for _, d := range days {
		wd, ok := parseWeekday(d.Weekday)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", d.Weekday)
		}
		if _, dup := hours[wd]; dup {
			return nil, fmt.Errorf("weekday %q specified twice", d.Weekday)
		}
		open, err := types.NewTimeStringFromString(d.Open)
		if err != nil {
			return nil, fmt.Errorf("%s open: %v", d.Weekday, err)
		}
		closeAt, err := types.NewTimeStringFromString(d.Close)
		if err != nil {
			return nil, fmt.Errorf("%s close: %v", d.Weekday, err)
		}
		hours[wd] = domain.DayHours{Open: open, Close: closeAt}
	}
	return hours, nil
}

// FromDomainRules конвертирует доменные правила в ответ
func FromDomainRules(rules *domain.CalendarRules, loc *time.Location, source string) *CalendarResponse {
	resp := &CalendarResponse{
		Timezone:                  loc.String(),
		Hours:                     make([]DayHours, 0, len(rules.Hours)),
		SlotGranularityMinutes:    rules.SlotGranularityMinutes,
		LeadDays:                  rules.LeadDays,
		CancellationWindowMinutes: int(rules.CancellationWindow / time.Minute),
		Source:                    source,
		UpdatedAt:                 rules.UpdatedAt,
	}
	for _, wd := range rules.Hours.Weekdays() {
		h := rules.Hours[wd]
		resp.Hours = append(resp.Hours, DayHours{
			Weekday: strings.ToLower(wd.String()),
			Open:    h.Open.String(),
			Close:   h.Close.String(),
		})
	}
	return resp
}

func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.TrimSpace(s)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), s) {
			return wd, true
		}
	}
	return 0, false
}
