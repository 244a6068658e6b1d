// Package recipients turns user input into broadcast recipient lists.
//
// Parsing is a lax heuristic, not a validator: any value of at least
// domain.MinRecipientLength characters passes, and delivery failures are
// reported back by the backend.
package recipients

import (
	"strings"

	"broadcaster/internal/domain"
)

// ParseCSV extracts candidate phone numbers from the first column of a
// comma-delimited file. A first line containing "phone" (any case) is
// treated as a header. Malformed input yields a partial or empty list.
func ParseCSV(content string) []domain.Recipient {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && strings.Contains(strings.ToLower(lines[0]), "phone") {
		lines = lines[1:]
	}

	var out []domain.Recipient
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		first, _, _ := strings.Cut(line, ",")
		number := clean(first)
		if len(number) >= domain.MinRecipientLength {
			out = append(out, number)
		}
	}
	return out
}

// clean strips single and double quotes and surrounding whitespace.
func clean(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}
