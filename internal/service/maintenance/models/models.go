package models

// SetServicesActiveRequest запрос на массовое включение/выключение услуг
type SetServicesActiveRequest struct {
	ServiceIDs []int64
	Active     bool
}

// SetServicesActiveResponse результат операции
type SetServicesActiveResponse struct {
	Requested int   `json:"requested"`
	Changed   int64 `json:"changed"`
	Active    bool  `json:"active"`
}

// SweepResponse результат перевода просроченных счетов в overdue
type SweepResponse struct {
	Date       string  `json:"date"`
	Updated    int     `json:"updated"`
	InvoiceIDs []int64 `json:"invoiceIds"`
}
