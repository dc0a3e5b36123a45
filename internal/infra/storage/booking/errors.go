package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable возвращается, когда БД отклонила пересекающееся бронирование
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrStatusConflict возвращается, когда текущий статус не совпал с ожидаемым
	ErrStatusConflict = errors.New("booking.repository: booking status changed concurrently")

	// ErrServiceNotFound возвращается при нарушении внешнего ключа на услугу
	ErrServiceNotFound = errors.New("booking.repository: service not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
