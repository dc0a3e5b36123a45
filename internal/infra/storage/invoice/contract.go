package invoice

import "github.com/m04kA/SkinStudio-BookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor

type rowScanner interface {
	Scan(dest ...interface{}) error
}
