package database

import (
	"errors"

	"github.com/lib/pq"

	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

const uniqueViolation = "23505"

// writeError classifies a failed mutation. Unique-constraint violations keep
// the WRITE type but carry a duplicate message callers can show as is.
func writeError(message, duplicateMessage string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.NewWriteError(duplicateMessage, err)
	}
	return apperrors.NewWriteError(message, err)
}
