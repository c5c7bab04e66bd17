package repository

import (
	"errors"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err is a Postgres unique constraint
// failure (duplicate email, item code or work order code).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
