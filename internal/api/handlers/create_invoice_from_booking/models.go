package create_invoice_from_booking

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	createInvoice "github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_invoice_from_booking"
)

// ExtraItemRequest дополнительная позиция (косметика, доплата и т.п.)
type ExtraItemRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest HTTP request model. Тело запроса необязательно
type CreateInvoiceRequest struct {
	ExtraItems []ExtraItemRequest `json:"extraItems,omitempty" validate:"omitempty,dive"`
	Notes      *string            `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateInvoiceRequest) ToUseCaseRequest(bookingID int64) *createInvoice.Request {
	req := &createInvoice.Request{
		BookingID: bookingID,
		Notes:     r.Notes,
	}
	for _, item := range r.ExtraItems {
		req.ExtraItems = append(req.ExtraItems, domain.LineItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return req
}
