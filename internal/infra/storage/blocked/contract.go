package blocked

import "github.com/m04kA/SkinStudio-BookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
