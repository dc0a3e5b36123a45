package invoices

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/invoices/models"
)

const defaultLimit = 100

// CustomerRequest получатель счета
type CustomerRequest struct {
	UserID *int64 `json:"userId,omitempty" validate:"omitempty,gt=0"`
	Name   string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
}

// LineItemRequest позиция счета. unitPrice принимается строкой или числом
type LineItemRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest HTTP request model
type CreateInvoiceRequest struct {
	Customer CustomerRequest   `json:"customer"`
	Items    []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes    *string           `json:"notes,omitempty" validate:"omitempty,max=500"`
	DueDate  *string           `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateInvoiceRequest HTTP request model. Отсутствующие поля не меняются
type UpdateInvoiceRequest struct {
	Customer *CustomerRequest  `json:"customer,omitempty"`
	Items    []LineItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
	Notes    *string           `json:"notes,omitempty" validate:"omitempty,max=500"`
	DueDate  *string           `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// PaymentRequest платёжные данные
type PaymentRequest struct {
	Method    string     `json:"method" validate:"required,max=64"`
	Reference *string    `json:"reference,omitempty" validate:"omitempty,max=255"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status  string          `json:"status" validate:"required,oneof=pending sent paid overdue cancelled"`
	Reason  *string         `json:"reason,omitempty" validate:"omitempty,max=500"`
	Payment *PaymentRequest `json:"payment,omitempty"`
}

func (c CustomerRequest) toService() models.CustomerInput {
	return models.CustomerInput{UserID: c.UserID, Name: c.Name, Email: c.Email}
}

func toServiceItems(items []LineItemRequest) []models.LineItemInput {
	if items == nil {
		return nil
	}
	result := make([]models.LineItemInput, 0, len(items))
	for _, item := range items {
		result = append(result, models.LineItemInput{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return result
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	date, err := handlers.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateInvoiceRequest) ToServiceRequest() (*models.CreateInvoiceRequest, error) {
	dueDate, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return nil, err
	}
	return &models.CreateInvoiceRequest{
		Customer: r.Customer.toService(),
		Items:    toServiceItems(r.Items),
		Notes:    r.Notes,
		DueDate:  dueDate,
	}, nil
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateInvoiceRequest) ToServiceRequest() (*models.UpdateInvoiceRequest, error) {
	dueDate, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return nil, err
	}
	req := &models.UpdateInvoiceRequest{
		Items:   toServiceItems(r.Items),
		Notes:   r.Notes,
		DueDate: dueDate,
	}
	if r.Customer != nil {
		customer := r.Customer.toService()
		req.Customer = &customer
	}
	return req, nil
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(actorID *int64) *models.UpdateStatusRequest {
	req := &models.UpdateStatusRequest{
		Status:  r.Status,
		Reason:  r.Reason,
		ActorID: actorID,
	}
	if r.Payment != nil {
		req.Payment = &models.PaymentInput{
			Method:    r.Payment.Method,
			Reference: r.Payment.Reference,
			PaidAt:    r.Payment.PaidAt,
		}
	}
	return req
}

// ToListRequest формирует фильтр из query параметров: status, bookingId, from, to, limit, offset
func ToListRequest(r *http.Request) (*models.ListInvoicesRequest, error) {
	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		return nil, err
	}

	req := &models.ListInvoicesRequest{
		Status:     handlers.QueryString(r, "status"),
		IssuedFrom: from,
		IssuedTo:   to,
	}

	if raw := r.URL.Query().Get("bookingId"); raw != "" {
		bookingID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || bookingID <= 0 {
			return nil, handlers.ErrInvalidParam
		}
		req.BookingID = &bookingID
	}

	if req.Limit, err = handlers.QueryUint64(r, "limit"); err != nil {
		return nil, err
	}
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}
	if req.Offset, err = handlers.QueryUint64(r, "offset"); err != nil {
		return nil, err
	}

	return req, nil
}
