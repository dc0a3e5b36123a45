package availability

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// Input данные одного дня для расчёта слотов
// Blocked и Bookings должны относиться к этой же дате
type Input struct {
	Hours              *domain.DayHours // nil - выходной
	DurationMinutes    int
	GranularityMinutes int
	Blocked            []*domain.BlockedInterval
	Bookings           []*domain.Booking
}

// ComputeSlots возвращает времена начала, на которые можно записаться.
// Кандидаты: open + k*granularity, при условии start+duration <= close.
// Отбрасываются кандидаты, пересекающиеся с блокировкой или с бронированием
// в статусе pending/confirmed/completed. Результат отсортирован по возрастанию.
// Функция чистая: не читает часы и не ходит в хранилище
func ComputeSlots(in Input) ([]types.TimeString, error) {
	if in.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, in.DurationMinutes)
	}
	if in.GranularityMinutes <= 0 {
		return nil, fmt.Errorf("%w: granularity must be positive, got %d", ErrInvalidInput, in.GranularityMinutes)
	}

	slots := make([]types.TimeString, 0)
	if in.Hours == nil {
		return slots, nil
	}

	busy := busyIntervals(in)
	open := in.Hours.Open.Minutes()
	closeAt := in.Hours.Close.Minutes()

	for start := open; start+in.DurationMinutes <= closeAt; start += in.GranularityMinutes {
		candidate, err := interval(start, start+in.DurationMinutes)
		if err != nil {
			return nil, err
		}

		if overlapsAny(candidate, busy) {
			continue
		}
		slots = append(slots, candidate.Start)
	}

	return slots, nil
}

// IsAvailable проверяет, что start входит в результат ComputeSlots
func IsAvailable(in Input, start types.TimeString) (bool, error) {
	slots, err := ComputeSlots(in)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func busyIntervals(in Input) []domain.Interval {
	busy := make([]domain.Interval, 0, len(in.Blocked)+len(in.Bookings))
	for _, b := range in.Blocked {
		busy = append(busy, b.Interval())
	}
	for _, b := range in.Bookings {
		if !b.Status.BlocksCalendar() {
			continue
		}
		busy = append(busy, b.Interval())
	}
	return busy
}

func overlapsAny(candidate domain.Interval, busy []domain.Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

func interval(startMinutes, endMinutes int) (domain.Interval, error) {
	start, err := types.NewTimeStringFromMinutes(startMinutes)
	if err != nil {
		return domain.Interval{}, err
	}
	end, err := types.NewTimeStringFromMinutes(endMinutes)
	if err != nil {
		return domain.Interval{}, err
	}
	return domain.Interval{Start: start, End: end}, nil
}
