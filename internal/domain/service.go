package domain

import "github.com/shopspring/decimal"

// Service catalog entry. Owned by the catalog, read-only here.
type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	Price           decimal.Decimal
	IsActive        bool
}
