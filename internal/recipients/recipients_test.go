package recipients

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broadcaster/internal/domain"
)

func TestParseCSV_HeaderAndShortRows(t *testing.T) {
	got := ParseCSV("phone\n919876543210\n123\n919876543211")

	assert.Equal(t, []string{"919876543210", "919876543211"}, got)
}

func TestParseCSV_HeaderDetectionIsCaseInsensitive(t *testing.T) {
	got := ParseCSV("Name,PHONE_NUMBER\n5511999999999,alice")

	assert.Equal(t, []string{"5511999999999"}, got)
}

func TestParseCSV_NoHeader(t *testing.T) {
	got := ParseCSV("5511999999999\n5511888888888")

	assert.Equal(t, []string{"5511999999999", "5511888888888"}, got)
}

func TestParseCSV_StripsQuotesAndWhitespace(t *testing.T) {
	content := "phone,name\r\n\"5511999999999\",alice\r\n  '5511888888888'  ,bob\r\n"

	got := ParseCSV(content)

	assert.Equal(t, []string{"5511999999999", "5511888888888"}, got)
}

func TestParseCSV_AcceptsAnyLongString(t *testing.T) {
	got := ParseCSV("not-a-number\nabc")

	assert.Equal(t, []string{"not-a-number"}, got)
}

func TestParseCSV_EmptyAndMalformed(t *testing.T) {
	assert.Empty(t, ParseCSV(""))
	assert.Empty(t, ParseCSV("phone"))
	assert.Empty(t, ParseCSV("\n\n,,,\n\"\"\n"))
}

func TestParseCSV_CountMatchesQualifyingLines(t *testing.T) {
	lines := []string{"phone"}
	want := 0
	for i := 0; i < 50; i++ {
		n := strings.Repeat("9", i%12)
		lines = append(lines, fmt.Sprintf("'%s' , x", n))
		if len(n) >= domain.MinRecipientLength {
			want++
		}
		lines = append(lines, "")
	}

	got := ParseCSV(strings.Join(lines, "\n"))

	assert.Len(t, got, want)
}

func TestParseManual(t *testing.T) {
	assert.Equal(t, []string{"111", "222"}, ParseManual(" 111, ,222 ,"))
	assert.Empty(t, ParseManual("   "))
	assert.Empty(t, ParseManual(""))
}

func TestMerge_RemovesDuplicates(t *testing.T) {
	manual := "5511999999999, 5511888888888,5511999999999"
	csv := []string{"5511888888888", "5511777777777"}

	got := Merge(manual, csv)

	assert.ElementsMatch(t, []string{"5511999999999", "5511888888888", "5511777777777"}, got)
}

func TestMerge_SizeBound(t *testing.T) {
	cases := []struct {
		manual string
		csv    []string
	}{
		{"", nil},
		{"a,b,c", nil},
		{"", []string{"x", "x", "y"}},
		{"a,a,b", []string{"b", "c"}},
		{" , ,", []string{""}},
	}

	for _, tc := range cases {
		got := Merge(tc.manual, tc.csv)

		seen := map[string]bool{}
		for _, n := range got {
			require.False(t, seen[n], "duplicate %q in %v", n, got)
			seen[n] = true
		}
		assert.LessOrEqual(t, len(got), len(ParseManual(tc.manual))+len(tc.csv))
		assert.Equal(t, len(got), Count(tc.manual, tc.csv))
	}
}

func TestResolve_WithUpload(t *testing.T) {
	upload := &domain.CSVUpload{
		FileName: "contacts.csv",
		Content:  []byte("phone\n5511999999999\n5511888888888\n"),
	}

	got := Resolve("5511888888888", upload)

	assert.Equal(t, []string{"5511888888888", "5511999999999"}, got)
}

func TestResolve_NoUpload(t *testing.T) {
	assert.Empty(t, Resolve("", nil))
	assert.Equal(t, []string{"123"}, Resolve("123", nil))
}
