package persistence

import (
	"context"
	"errors"
	"net"

	"github.com/farmdesk/backend/internal/domain/shared"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// translateError maps driver and GORM errors onto the domain error
// taxonomy so callers never see storage internals. Domain errors pass
// through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return shared.ErrUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return shared.ErrUnavailable
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08": // connection exceptions
			return shared.ErrUnavailable
		case "23": // integrity constraint violations
			if pqErr.Code == "23505" {
				return shared.ErrAlreadyExists
			}
		case "40": // transaction rollback, serialization failures
			return shared.ErrConcurrencyConflict
		case "57": // operator intervention, shutdown
			return shared.ErrUnavailable
		}
	}

	return err
}
