package create_invoice_from_booking

import (
	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// Request модель запроса на выставление счета по бронированию
type Request struct {
	BookingID  int64             // ID завершённого бронирования
	ExtraItems []domain.LineItem // Дополнительные позиции после услуги (опционально)
	Notes      *string           // Примечание к счету (опционально)
}

// Response модель ответа с созданным счетом
type Response struct {
	Invoice *domain.Invoice
}
