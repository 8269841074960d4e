package commitproof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDecimal(t *testing.T) {
	for input, expected := range map[string]string{
		"1000":    "1000",
		"1000.00": "1000",
		"1000.50": "1000.5",
		"+12.5":   "12.5",
		"0.000":   "0",
		"-0":      "0",
		"-0.10":   "-0.1",
		".5":      "0.5",
		"5.":      "5",
		"007":     "7",

		"123456789012345678901234567890.1230": "123456789012345678901234567890.123",
	} {
		d, err := ParseDecimal("value", input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, FormatDecimal(d), input)
	}
}

func TestParseDecimalRejects(t *testing.T) {
	for _, input := range []string{"", "-", "+", ".", "-.", "1e5", "1E5", "1,5", "1 000", "NaN", "Infinity", "0x10", "--1", "1..2", "\t1"} {
		_, err := ParseDecimal("amount", input)
		var malformed *MalformedInputError
		require.ErrorAs(t, err, &malformed, "input %q", input)
		assert.Equal(t, "amount", malformed.Field)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2000-01-31", FormatDate(date(2000, time.January, 31)))

	// The calendar date is taken in the time's own location.
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2000-02-01", FormatDate(time.Date(2000, time.February, 1, 1, 0, 0, 0, tokyo)))

	d, err := ParseDate("eventDate", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), d)

	for _, input := range []string{"", "2023-02-29", "2024-2-1", "01-02-2024", "2024/02/01"} {
		_, err := ParseDate("eventDate", input)
		var malformed *MalformedInputError
		require.ErrorAs(t, err, &malformed, input)
	}
}
