package invoice

import "errors"

var (
	// ErrInvoiceNotFound возвращается, когда счет не найден
	ErrInvoiceNotFound = errors.New("invoice.repository: invoice not found")

	// ErrStatusConflict возвращается, когда текущий статус не совпал с ожидаемым
	ErrStatusConflict = errors.New("invoice.repository: invoice status changed concurrently")

	// ErrDuplicateNumber возвращается при нарушении уникальности номера счета
	ErrDuplicateNumber = errors.New("invoice.repository: duplicate invoice number")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("invoice.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("invoice.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("invoice.repository: failed to scan row")
)
