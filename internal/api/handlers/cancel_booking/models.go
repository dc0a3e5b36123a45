package cancel_booking

// CancelBookingRequest HTTP request model. Тело запроса необязательно
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}
