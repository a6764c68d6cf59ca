package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 182.0, Days(start, end))
}

func TestAddMonthEndOfMonth(t *testing.T) {
	// EDATE semantics: Jan 31 + 1 month lands on the last day of
	// February, not March 2/3.
	got := AddMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	got = AddMonth(time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1)
	assert.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), got)

	got = AddMonth(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 6)
	assert.Equal(t, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), got)
}
