package persistence

import (
	"github.com/farmdesk/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// scoped applies the caller's visibility scope as a WHERE filter.
// Repositories call this on every read so scope enforcement is never
// optional at a call site.
func scoped(query *gorm.DB, scope identity.Scope) *gorm.DB {
	if scope.IsUnrestricted() {
		return query
	}
	return query.Where("owner_id = ?", scope.OwnerID())
}
