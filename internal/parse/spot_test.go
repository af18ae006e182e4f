package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpotID(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedSpotID
		expectErr bool
	}{
		{
			name:     "Standard Case",
			raw:      "A01",
			expected: ParsedSpotID{Section: "A", Index: 1},
		},
		{
			name:     "Double Digit Index",
			raw:      "D12",
			expected: ParsedSpotID{Section: "D", Index: 12},
		},
		{
			name:     "Lowercase Section",
			raw:      "b07",
			expected: ParsedSpotID{Section: "B", Index: 7},
		},
		{
			name:     "Surrounding Whitespace",
			raw:      " C03 ",
			expected: ParsedSpotID{Section: "C", Index: 3},
		},
		{
			name:      "Zero Index",
			raw:       "A00",
			expectErr: true,
		},
		{
			name:      "Missing Padding",
			raw:       "A1",
			expectErr: true,
		},
		{
			name:      "Trailing Garbage",
			raw:       "A01X",
			expectErr: true,
		},
		{
			name:      "Empty String",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseSpotID(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestFormatSpotID(t *testing.T) {
	assert.Equal(t, "A01", FormatSpotID("A", 1))
	assert.Equal(t, "B12", FormatSpotID("b", 12))
}
