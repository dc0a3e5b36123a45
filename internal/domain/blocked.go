package domain

import (
	"time"

	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// BlockedInterval staff-declared unavailability inside one day
type BlockedInterval struct {
	ID        int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    *string
	CreatedAt time.Time
}

// Interval returns the blocked range
func (b *BlockedInterval) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}
