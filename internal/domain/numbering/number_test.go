package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_IncrementsWithinSameMonth(t *testing.T) {
	now := time.Date(2025, time.May, 17, 10, 30, 0, 0, time.UTC)

	next, err := Next("INV", "INV20250500043", now)

	require.NoError(t, err)
	assert.Equal(t, "INV20250500044", next)
}

func TestNext_ResetsOnMonthRollover(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 1, 0, time.UTC)

	next, err := Next("INV", "INV20250500043", now)

	require.NoError(t, err)
	assert.Equal(t, "INV20250600001", next)
}

func TestNext_ResetsOnYearRollover(t *testing.T) {
	now := time.Date(2026, time.May, 3, 12, 0, 0, 0, time.UTC)

	next, err := Next("INV", "INV20250500043", now)

	require.NoError(t, err)
	assert.Equal(t, "INV20260500001", next)
}

func TestNext_StartsAtOneWithoutPriorNumber(t *testing.T) {
	now := time.Date(2025, time.August, 31, 9, 0, 0, 0, time.UTC)

	next, err := Next("PO", "", now)

	require.NoError(t, err)
	assert.Equal(t, "PO20250800001", next)
}

func TestNext_ZeroPadsSequence(t *testing.T) {
	now := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

	next, err := Next("PO", "PO20250100009", now)

	require.NoError(t, err)
	assert.Equal(t, "PO20250100010", next)
}

func TestNext_RejectsEmptyPrefix(t *testing.T) {
	_, err := Next("", "", time.Now())

	assert.Error(t, err)
}

func TestNext_RejectsMalformedLastNumber(t *testing.T) {
	now := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last string
	}{
		{"wrong prefix", "INV20250500043"},
		{"too short", "PO2025050004"},
		{"too long", "PO202505000430"},
		{"non-numeric sequence", "PO202505ABCDE"},
		{"invalid month", "PO20251300001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Next("PO", tt.last, now)
			assert.Error(t, err)
		})
	}
}
