package recipients

import (
	"strings"

	"broadcaster/internal/domain"
)

// ParseManual splits a comma-separated manual entry, dropping blanks.
func ParseManual(entry string) []domain.Recipient {
	var out []domain.Recipient
	for _, part := range strings.Split(entry, ",") {
		if n := strings.TrimSpace(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Merge returns the de-duplicated union of manually entered numbers and
// CSV-derived numbers. Order is first-seen and carries no meaning.
func Merge(manual string, csv []domain.Recipient) []domain.Recipient {
	manualList := ParseManual(manual)

	seen := make(map[domain.Recipient]struct{}, len(manualList)+len(csv))
	out := make([]domain.Recipient, 0, len(manualList)+len(csv))

	for _, list := range [][]domain.Recipient{manualList, csv} {
		for _, n := range list {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// Count is the merged recipient count shown before submission.
func Count(manual string, csv []domain.Recipient) int {
	return len(Merge(manual, csv))
}

// Resolve merges the manual entry with the parsed content of an optional
// CSV upload.
func Resolve(manual string, upload *domain.CSVUpload) []domain.Recipient {
	var csv []domain.Recipient
	if upload != nil {
		csv = ParseCSV(string(upload.Content))
	}
	return Merge(manual, csv)
}
