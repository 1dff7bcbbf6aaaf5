package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2024-05-15", FormatDate(d))

	_, err = ParseDate("15-05-2024")
	assert.Error(t, err)
	_, err = ParseDate("2024-5-15")
	assert.Error(t, err, "feed dates are zero-padded ISO 8601")
}
