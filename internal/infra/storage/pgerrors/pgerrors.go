package pgerrors

import (
	"errors"

	"github.com/lib/pq"
)

const codeUniqueViolation = "23505"

// IsUniqueViolation ошибка нарушения уникального ограничения
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeUniqueViolation
	}
	return false
}
