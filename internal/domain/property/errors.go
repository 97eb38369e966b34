package property

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateCode = errors.New("property code already in use")
)

// ConflictError reports an optimistic-lock mismatch on update. It carries
// the current server-side timestamp so the client can reconcile.
type ConflictError struct {
	CurrentUpdatedAt time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("property was modified at %s", e.CurrentUpdatedAt.Format(time.RFC3339))
}
