package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// Request модели

// CustomerInput получатель счета
type CustomerInput struct {
	UserID *int64
	Name   string
	Email  string
}

// ToDomain конвертирует в domain модель
func (c CustomerInput) ToDomain() domain.InvoiceCustomer {
	return domain.InvoiceCustomer{UserID: c.UserID, Name: c.Name, Email: c.Email}
}

// LineItemInput позиция счета
type LineItemInput struct {
	Name        string
	Description *string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// ToDomainLineItems конвертирует позиции в domain модели
func ToDomainLineItems(items []LineItemInput) []domain.LineItem {
	result := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		result = append(result, domain.LineItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return result
}

// CreateInvoiceRequest запрос на создание счета вручную
type CreateInvoiceRequest struct {
	Customer CustomerInput
	Items    []LineItemInput
	Notes    *string
	DueDate  *time.Time // По умолчанию issueDate + dueDays
}

// UpdateInvoiceRequest запрос на изменение счета в статусе pending
// Поля со значением nil не меняются
type UpdateInvoiceRequest struct {
	Customer *CustomerInput
	Items    []LineItemInput // nil - позиции не меняются
	Notes    *string
	DueDate  *time.Time
}

// PaymentInput платёжные данные для перехода в paid
type PaymentInput struct {
	Method    string
	Reference *string
	PaidAt    *time.Time
}

// UpdateStatusRequest запрос на смену статуса
type UpdateStatusRequest struct {
	Status  string
	Reason  *string // Обязателен для возврата в pending из paid/cancelled
	Payment *PaymentInput
	ActorID *int64
}

// ListInvoicesRequest фильтр списка счетов
type ListInvoicesRequest struct {
	Status     *string
	BookingID  *int64
	IssuedFrom *time.Time
	IssuedTo   *time.Time
	Limit      uint64
	Offset     uint64
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListInvoicesRequest) ToDomainFilter() (domain.InvoicesFilter, error) {
	filter := domain.InvoicesFilter{
		BookingID:  r.BookingID,
		IssuedFrom: r.IssuedFrom,
		IssuedTo:   r.IssuedTo,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}

	if r.IssuedFrom != nil && r.IssuedTo != nil && r.IssuedTo.Before(*r.IssuedFrom) {
		return filter, fmt.Errorf("period end %s is before start %s",
			r.IssuedTo.Format(domain.DateFormat), r.IssuedFrom.Format(domain.DateFormat))
	}

	if r.Status != nil {
		status := domain.InvoiceStatus(*r.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("unknown invoice status %q", *r.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// LineItemResponse позиция счета
type LineItemResponse struct {
	Position    int             `json:"position"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// CustomerResponse получатель счета
type CustomerResponse struct {
	UserID *int64 `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// StatusChangeResponse запись истории статусов
type StatusChangeResponse struct {
	From             string    `json:"from"`
	To               string    `json:"to"`
	ActorID          *int64    `json:"actorId,omitempty"`
	Reason           *string   `json:"reason,omitempty"`
	PaymentMethod    *string   `json:"paymentMethod,omitempty"`
	PaymentReference *string   `json:"paymentReference,omitempty"`
	ChangedAt        time.Time `json:"changedAt"`
}

// InvoiceResponse ответ с данными счета
type InvoiceResponse struct {
	ID        int64              `json:"id"`
	Number    string             `json:"number"`
	BookingID *int64             `json:"bookingId,omitempty"`
	Customer  CustomerResponse   `json:"customer"`
	Items     []LineItemResponse `json:"items"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`

	Status    string  `json:"status"`
	IssueDate string  `json:"issueDate"`
	DueDate   string  `json:"dueDate"`
	Notes     *string `json:"notes,omitempty"`

	PaidAt           *time.Time `json:"paidAt,omitempty"`
	PaymentMethod    *string    `json:"paymentMethod,omitempty"`
	PaymentReference *string    `json:"paymentReference,omitempty"`

	History []StatusChangeResponse `json:"history,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InvoiceListResponse ответ со списком счетов
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// Методы конвертации

// FromDomainInvoice конвертирует domain модель в DTO
func FromDomainInvoice(inv *domain.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}

	resp := &InvoiceResponse{
		ID:        inv.ID,
		Number:    inv.Number,
		BookingID: inv.BookingID,
		Customer: CustomerResponse{
			UserID: inv.Customer.UserID,
			Name:   inv.Customer.Name,
			Email:  inv.Customer.Email,
		},
		Items:            make([]LineItemResponse, 0, len(inv.Items)),
		Subtotal:         inv.Subtotal,
		TaxRate:          inv.TaxRate,
		TaxAmount:        inv.TaxAmount,
		Total:            inv.Total,
		Status:           string(inv.Status),
		IssueDate:        inv.IssueDate.Format(domain.DateFormat),
		DueDate:          inv.DueDate.Format(domain.DateFormat),
		Notes:            inv.Notes,
		PaidAt:           inv.PaidAt,
		PaymentMethod:    inv.PaymentMethod,
		PaymentReference: inv.PaymentReference,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}

	for _, item := range inv.Items {
		resp.Items = append(resp.Items, LineItemResponse{
			Position:    item.Position,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount(),
		})
	}

	return resp
}

// WithHistory добавляет историю статусов
func (r *InvoiceResponse) WithHistory(history []*domain.InvoiceStatusChange) *InvoiceResponse {
	r.History = make([]StatusChangeResponse, 0, len(history))
	for _, h := range history {
		r.History = append(r.History, StatusChangeResponse{
			From:             string(h.FromStatus),
			To:               string(h.ToStatus),
			ActorID:          h.ActorID,
			Reason:           h.Reason,
			PaymentMethod:    h.PaymentMethod,
			PaymentReference: h.PaymentReference,
			ChangedAt:        h.ChangedAt,
		})
	}
	return r
}

// FromDomainInvoiceList конвертирует список domain моделей в DTO
func FromDomainInvoiceList(invoices []*domain.Invoice) *InvoiceListResponse {
	resp := &InvoiceListResponse{
		Invoices: make([]InvoiceResponse, 0, len(invoices)),
	}
	for _, inv := range invoices {
		resp.Invoices = append(resp.Invoices, *FromDomainInvoice(inv))
	}
	return resp
}
