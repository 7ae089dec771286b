package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/farmdesk/backend/internal/domain/numbering"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceAllocator implements numbering.Allocator over the
// document_sequences table. The sequence row is locked FOR UPDATE for the
// duration of the surrounding transaction, so two concurrent allocations
// for the same prefix serialize and can never hand out the same number.
type GormSequenceAllocator struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db, now: time.Now}
}

// NextNumber allocates the next document number for the prefix
func (a *GormSequenceAllocator) NextNumber(ctx context.Context, prefix string) (string, error) {
	var seq numbering.Sequence
	err := a.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&seq, "prefix = ?", prefix).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Two first-ever allocations can race on the bootstrap insert;
		// ON CONFLICT lets the loser fall through to the lock below and
		// serialize behind the winner instead of failing.
		insert := "INSERT INTO document_sequences (prefix, last_number, updated_at) VALUES (?, '', ?) ON CONFLICT (prefix) DO NOTHING"
		if err := a.db.WithContext(ctx).Exec(insert, prefix, a.now()).Error; err != nil {
			return "", translateError(err)
		}
		if err := a.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&seq, "prefix = ?", prefix).Error; err != nil {
			return "", translateError(err)
		}
	} else if err != nil {
		return "", translateError(err)
	}

	next, err := numbering.Next(prefix, seq.LastNumber, a.now())
	if err != nil {
		return "", err
	}

	result := a.db.WithContext(ctx).
		Model(&numbering.Sequence{}).
		Where("prefix = ?", prefix).
		Updates(map[string]interface{}{
			"last_number": next,
			"updated_at":  a.now(),
		})
	if result.Error != nil {
		return "", translateError(result.Error)
	}

	return next, nil
}

var _ numbering.Allocator = (*GormSequenceAllocator)(nil)
