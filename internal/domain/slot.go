package domain

import "github.com/m04kA/SkinStudio-BookingService/pkg/types"

// Interval half-open time range [Start, End) within one day
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Overlaps reports whether two half-open intervals intersect:
// max(aStart, bStart) < min(aEnd, bEnd)
func (i Interval) Overlaps(other Interval) bool {
	start := i.Start.Minutes()
	if other.Start.Minutes() > start {
		start = other.Start.Minutes()
	}
	end := i.End.Minutes()
	if other.End.Minutes() < end {
		end = other.End.Minutes()
	}
	return start < end
}

// Contains reports whether other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.IsBefore(i.Start) && !other.End.IsAfter(i.End)
}

// IsValid reports whether start < end
func (i Interval) IsValid() bool {
	return i.Start.IsBefore(i.End)
}

// DurationMinutes length of the interval
func (i Interval) DurationMinutes() int {
	return i.End.Minutes() - i.Start.Minutes()
}
