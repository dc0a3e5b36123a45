package middleware

import (
	"context"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// Заголовки идентификации. Аутентификация выполняется шлюзом, сервис им доверяет
const (
	HeaderUserID     = "X-User-ID"
	HeaderUserRole   = "X-User-Role"
	HeaderGuestEmail = "X-Guest-Email"
)

const (
	msgInvalidIdentity = "некорректные заголовки идентификации"
	msgUnauthorized    = "требуется идентификация"
	msgForbidden       = "доступ только для персонала"
)

type actorKey struct{}

// Auth разбирает заголовки идентификации и кладет domain.Actor в контекст.
// Запрос без заголовков проходит как анонимный клиент
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromHeaders(r)
		if !ok {
			handlers.RespondUnauthorized(w, msgInvalidIdentity)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireIdentity отклоняет анонимные запросы
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok || (actor.UserID == nil && actor.Email == "" && !actor.IsStaff()) {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff пропускает только персонал студии
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		if !actor.IsStaff() {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor кладет actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor извлекает actor из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok || actor.UserID == nil {
		return 0, false
	}
	return *actor.UserID, true
}

func actorFromHeaders(r *http.Request) (domain.Actor, bool) {
	actor := domain.Actor{Role: domain.RoleCustomer}

	if raw := strings.TrimSpace(r.Header.Get(HeaderUserID)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.Actor{}, false
		}
		actor.UserID = &id
	}

	switch role := domain.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))); role {
	case "":
	case domain.RoleCustomer, domain.RoleStaff:
		actor.Role = role
	default:
		return domain.Actor{}, false
	}

	if actor.Role == domain.RoleStaff && actor.UserID == nil {
		return domain.Actor{}, false
	}

	if raw := strings.TrimSpace(r.Header.Get(HeaderGuestEmail)); raw != "" {
		if actor.UserID != nil {
			return domain.Actor{}, false
		}
		addr, err := mail.ParseAddress(raw)
		if err != nil || addr.Address != raw {
			return domain.Actor{}, false
		}
		actor.Email = raw
	}

	return actor, true
}
