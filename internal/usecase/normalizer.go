package usecase

import (
	"regexp"
	"strings"
)

// whitespaceRegex collapses runs of whitespace to a single space
var whitespaceRegex = regexp.MustCompile(`\s+`)

// OCR confusion substitutions. Lowercase "l" has to be handled before the
// case fold (it would become a legitimate "L" afterwards); "O" and "I" are
// handled after so that lowercase "o"/"i" are covered by the same pass.
var (
	preFoldReplacer  = strings.NewReplacer("l", "1")
	postFoldReplacer = strings.NewReplacer("O", "0", "I", "1")

	// fragmentReplacer is the heavier fixup applied to captured
	// value fragments on nutrition panels. The "S" substitution is
	// ambiguous and applied unconditionally, so it can corrupt unit
	// letters sharing the fragment ("OZ" becomes "0Z"). The unit tables
	// tolerate the corrupted spellings instead of conditioning the
	// substitution on numeric context.
	fragmentReplacer = strings.NewReplacer("O", "0", "I", "1", "S", "5")
)

// NormalizeDateText canonicalizes text for the date domain: OCR digit
// substitution, uppercase fold, whitespace collapse. Idempotent.
func NormalizeDateText(s string) string {
	s = preFoldReplacer.Replace(s)
	s = strings.ToUpper(s)
	s = postFoldReplacer.Replace(s)
	return collapseWhitespace(s)
}

// NormalizeLabelText canonicalizes text for the nutrition domain: uppercase
// fold and whitespace collapse only. Digit fixup happens per captured value
// fragment via FixOCRDigits, not on the whole panel text, so field labels
// like SODIUM survive matching. Idempotent.
func NormalizeLabelText(s string) string {
	return collapseWhitespace(strings.ToUpper(s))
}

// FixOCRDigits applies the unconditional OCR digit substitutions to a value
// fragment captured from a nutrition panel (e.g. "2S0" -> "250", but also
// "8 oz" -> "8 0Z").
func FixOCRDigits(fragment string) string {
	fragment = preFoldReplacer.Replace(fragment)
	fragment = strings.ToUpper(fragment)
	return fragmentReplacer.Replace(fragment)
}

// NormalizeUtterance canonicalizes spoken/typed shopping text: lowercase
// fold and whitespace collapse. Transcribed speech does not carry OCR
// confusions, so no substitution is applied. Idempotent.
func NormalizeUtterance(s string) string {
	return collapseWhitespace(strings.ToLower(s))
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
