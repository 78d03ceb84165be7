package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coercion helpers shared by every entity validator. All of them are lenient:
// absent or unparsable optional values collapse to zero values instead of
// erroring, and the validator decides whether that is a problem.

var truthyTokens = map[string]struct{}{
	"true": {}, "1": {}, "yes": {}, "y": {},
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

func asTrimmedString(value string) string {
	return strings.TrimSpace(value)
}

// asBoolish accepts a small set of truthy tokens; anything else is false.
func asBoolish(value string) bool {
	_, ok := truthyTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// asFiniteNumber parses a lenient numeric cell. The second result is false
// when the cell is absent or not a finite number.
func asFiniteNumber(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// asList splits a delimited cell on any of ';', ',' or '|', trimming entries
// and discarding empties. An absent cell yields an empty list.
func asList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == ',' || r == '|'
	})
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// asEnum lowercases the cell and checks it against the allow-list, returning
// the fallback when the cell is empty. The second result is false when a
// non-empty value is not in the list.
func asEnum(value string, allowed []string, fallback string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return fallback, true
	}
	for _, candidate := range allowed {
		if candidate == normalized {
			return normalized, true
		}
	}
	return normalized, false
}

// asDate parses a date cell against the accepted layouts. An empty cell is
// nil with no error; an unparsable non-empty cell appends an error.
func asDate(value, fieldName string, errs *[]string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return &parsed
		}
	}
	*errs = append(*errs, fmt.Sprintf("%s must be a valid date (use YYYY-MM-DD)", fieldName))
	return nil
}

// asEmail applies a light plausibility check; empty cells pass through.
func asEmail(value, fieldName string, errs *[]string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "@") {
		*errs = append(*errs, fmt.Sprintf("%s appears to be invalid", fieldName))
	}
	return trimmed
}

func enumError(fieldName string, allowed []string) string {
	return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed, ", "))
}
