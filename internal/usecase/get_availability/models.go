package get_availability

import (
	"time"

	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// Request модель запроса доступных слотов
type Request struct {
	Date      time.Time // Дата (время игнорируется)
	ServiceID int64     // ID услуги
}

// Slot доступный слот
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time
	ServiceID       int64
	ServiceName     string
	DurationMinutes int
	Slots           []Slot // Пустой список, если день выходной или всё занято
}
