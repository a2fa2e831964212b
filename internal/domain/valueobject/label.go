package valueobject

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var labelSeparators = strings.NewReplacer("-", "", "_", "", " ", "")

// normalizeLabel folds case, strips diacritics and drops separators so that
// "Pós-fixada", "pos fixada" and "posfixada" share one lookup key.
func normalizeLabel(s string) string {
	// transform.Chain keeps state between calls; build one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(fold, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		out = strings.ToLower(strings.TrimSpace(s))
	}
	return labelSeparators.Replace(out)
}
