package invoices

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

var (
	// ErrInvoiceNotFound возвращается, когда счет не найден
	ErrInvoiceNotFound = fmt.Errorf("%w: invoices: invoice not found", domain.ErrNotFound)

	// ErrInvoiceNotEditable возвращается при попытке изменить счет не в статусе pending
	ErrInvoiceNotEditable = fmt.Errorf("%w: invoices: only pending invoices can be edited", domain.ErrInvalidInvoiceTransition)

	// ErrInvalidTransition возвращается, когда переход статуса не разрешён
	ErrInvalidTransition = fmt.Errorf("%w: invoices: transition is not allowed", domain.ErrInvalidInvoiceTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invoices: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: invoices: internal error", domain.ErrStorage)
)
