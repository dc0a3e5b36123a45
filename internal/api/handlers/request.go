package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

const maxBodyBytes = 1 << 20

var (
	// ErrEmptyBody тело запроса отсутствует
	ErrEmptyBody = errors.New("handlers: empty request body")

	// ErrInvalidParam некорректный параметр пути или запроса
	ErrInvalidParam = errors.New("handlers: invalid parameter")
)

var validate = validator.New()

// DecodeJSON читает JSON тело запроса. Неизвестные поля и лишние данные после объекта отклоняются
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("handlers: unexpected data after JSON object")
	}
	return nil
}

// DecodeOptionalJSON как DecodeJSON, но пустое тело не считается ошибкой
func DecodeOptionalJSON(r *http.Request, dst interface{}) error {
	if err := DecodeJSON(r, dst); err != nil && !errors.Is(err, ErrEmptyBody) {
		return err
	}
	return nil
}

// ValidateStruct проверяет теги validate. Возвращает nil, если ошибок нет
func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Namespace()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "min", "gte":
		return fmt.Sprintf("минимальное значение %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("максимальное значение %s", fe.Param())
	case "gt":
		return fmt.Sprintf("значение должно быть больше %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("ожидается формат %s", fe.Param())
	case "unique":
		return "значения должны быть уникальными"
	default:
		return fmt.Sprintf("некорректное значение (%s)", fe.Tag())
	}
}

// PathInt64 положительный целый параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return id, nil
}

// ParseDate разбирает дату YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidParam, s)
	}
	return date, nil
}

// QueryDate необязательная дата из query. Пустое значение дает nil
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	date, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// QueryUint64 необязательное неотрицательное число из query
func QueryUint64(r *http.Request, name string) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return v, nil
}

// QueryString необязательная строка из query
func QueryString(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}
