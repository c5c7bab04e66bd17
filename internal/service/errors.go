package service

import appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"

// isConflict reports whether err carries the conflict code emitted by the
// repositories on unique-constraint violations.
func isConflict(err error) bool {
	appErr := appErrors.FromError(err)
	return appErr.Code == appErrors.ErrConflict.Code
}
