package list_bookings

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/bookings/models"
)

const defaultLimit = 100

// ToServiceRequest формирует запрос к сервису из query параметров
// from, to (YYYY-MM-DD), status, userId, limit, offset - все опциональны
func ToServiceRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		return nil, err
	}

	req := &models.ListBookingsRequest{
		StartDate: from,
		EndDate:   to,
		Status:    handlers.QueryString(r, "status"),
		Limit:     defaultLimit,
	}

	if raw := r.URL.Query().Get("userId"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return nil, handlers.ErrInvalidParam
		}
		req.UserID = &userID
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
