package domain

import (
	"strconv"
	"strings"
)

// ParseNumeric parses a raw numeric field from the document database.
// The source data stores years and citation counts as strings or numbers,
// and either may be absent or garbage. The boolean result makes the
// missing/unparseable case explicit; each call site documents its fallback
// policy (some contexts default to 0, others exclude the record).
func ParseNumeric(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		// Accept values stored as floats ("2020.0") by truncating.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, false
		}
		return int(f), true
	}
	return n, true
}

// NumericOrZero parses a raw numeric field, defaulting to 0 when the field
// is missing or unparseable. This is the comparison fallback used by the
// citation filter and the sort engine.
func NumericOrZero(raw string) int {
	n, ok := ParseNumeric(raw)
	if !ok {
		return 0
	}
	return n
}
