// Package templates previews WhatsApp template bodies with positional
// {{n}} placeholders.
package templates

import (
	"fmt"
	"regexp"
	"strconv"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*(\d+)\s*\}\}`)

// Placeholders returns the distinct placeholder indices found in body,
// in first-appearance order.
func Placeholders(body string) []int {
	var indices []int
	seen := make(map[int]bool)

	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		k, err := strconv.Atoi(m[1])
		if err != nil || seen[k] {
			continue
		}
		seen[k] = true
		indices = append(indices, k)
	}
	return indices
}

// NewSlots returns one empty variable slot per placeholder in body.
func NewSlots(body string) []string {
	return make([]string, len(Placeholders(body)))
}

// FillSlots copies values into a fresh slot list for body. Missing values
// stay empty; more values than slots is an error.
func FillSlots(body string, values []string) ([]string, error) {
	slots := NewSlots(body)
	if len(values) > len(slots) {
		return nil, fmt.Errorf("template has %d variables, got %d values", len(slots), len(values))
	}
	copy(slots, values)
	return slots, nil
}

// Preview substitutes every {{k}} in body with vars[k-1]. Missing or empty
// values render as "[Variable k]".
func Preview(body string, vars []string) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(match string) string {
		sub := placeholderRe.FindStringSubmatch(match)
		k, err := strconv.Atoi(sub[1])
		if err != nil {
			return match
		}
		if k >= 1 && k <= len(vars) && vars[k-1] != "" {
			return vars[k-1]
		}
		return fmt.Sprintf("[Variable %d]", k)
	})
}
