package delete_review

import (
	"context"

	"github.com/google/uuid"
)

type ReviewService interface {
	Delete(ctx context.Context, callerID, reviewID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
