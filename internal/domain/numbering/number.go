// Package numbering generates human-readable document numbers for purchase
// orders and invoices. Numbers follow PREFIX + YYYY + MM + NNNNN and the
// 5-digit sequence resets at every calendar month boundary.
package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/farmdesk/backend/internal/domain/shared"
)

// Document number prefixes used by the back office
const (
	PrefixPurchaseOrder = "PO"
	PrefixInvoice       = "INV"
)

const sequenceDigits = 5

// Next computes the document number that follows lastNumber for the given
// prefix at the given moment. An empty lastNumber, or a lastNumber from a
// different calendar month or year, restarts the sequence at 00001.
func Next(prefix, lastNumber string, now time.Time) (string, error) {
	if prefix == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "Number prefix cannot be empty")
	}

	year, month := now.Year(), int(now.Month())

	seq := 1
	if lastNumber != "" {
		lastYear, lastMonth, lastSeq, err := parse(prefix, lastNumber)
		if err != nil {
			return "", err
		}
		if lastYear == year && lastMonth == month {
			seq = lastSeq + 1
		}
	}

	return fmt.Sprintf("%s%04d%02d%0*d", prefix, year, month, sequenceDigits, seq), nil
}

// parse splits a document number into its year, month and sequence parts.
// The expected shape is PREFIX + YYYY + MM + NNNNN.
func parse(prefix, number string) (year, month, seq int, err error) {
	rest, ok := strings.CutPrefix(number, prefix)
	if !ok || len(rest) != 4+2+sequenceDigits {
		return 0, 0, 0, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Document number %q does not match prefix %q", number, prefix))
	}

	year, err = strconv.Atoi(rest[:4])
	if err != nil {
		return 0, 0, 0, shared.NewDomainError("INVALID_INPUT", "Document number has a malformed year")
	}
	month, err = strconv.Atoi(rest[4:6])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, shared.NewDomainError("INVALID_INPUT", "Document number has a malformed month")
	}
	seq, err = strconv.Atoi(rest[6:])
	if err != nil {
		return 0, 0, 0, shared.NewDomainError("INVALID_INPUT", "Document number has a malformed sequence")
	}
	return year, month, seq, nil
}

// Allocator hands out the next document number for a prefix.
// Implementations must serialize concurrent allocations for the same prefix
// so that two documents created in the same instant never share a number.
type Allocator interface {
	NextNumber(ctx context.Context, prefix string) (string, error)
}

// Sequence records the most recently allocated number per prefix. It backs
// the persistent Allocator; the row is locked while a number is handed out.
type Sequence struct {
	Prefix     string `gorm:"type:varchar(10);primaryKey"`
	LastNumber string `gorm:"type:varchar(30);not null"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (Sequence) TableName() string {
	return "document_sequences"
}
