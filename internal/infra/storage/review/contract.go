package review

import "github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
