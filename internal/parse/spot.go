package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var spotIDRe = regexp.MustCompile(`^([A-Z])(\d{2})$`)

// ParsedSpotID holds the structured data parsed from a spot identifier.
type ParsedSpotID struct {
	Section string
	Index   int
}

// ParseSpotID validates and decomposes a spot identifier of the form
// "<SectionLetter><2-digit index>", e.g. "A01". Lowercase section letters
// and surrounding whitespace are tolerated.
func ParseSpotID(raw string) (ParsedSpotID, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))

	m := spotIDRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedSpotID{}, fmt.Errorf("unable to parse spot id: %q", raw)
	}

	index, err := strconv.Atoi(m[2])
	if err != nil {
		return ParsedSpotID{}, fmt.Errorf("unable to parse spot index in %q: %w", raw, err)
	}
	if index == 0 {
		return ParsedSpotID{}, fmt.Errorf("spot index must start at 1: %q", raw)
	}

	return ParsedSpotID{Section: m[1], Index: index}, nil
}

// FormatSpotID builds the canonical identifier for a section and index.
func FormatSpotID(section string, index int) string {
	return fmt.Sprintf("%s%02d", strings.ToUpper(section), index)
}
