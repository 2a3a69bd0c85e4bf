// ABOUTME: Field normalization shared by the analyzer and clean exports
// ABOUTME: Email, phone, name-casing, and dedup-key canonicalization
package quality

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks after canonical decomposition, so that
// "Électricité" and "Electricite" fold to the same key.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeEmail lowercases and trims an email address. Idempotent.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail applies the analyzer's shape heuristic: exactly one @ with a
// non-empty local part and a domain containing a dot.
func ValidEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return false
	}
	return !strings.ContainsAny(s, " \t")
}

// NormalizePhone reduces a phone number to a canonical +digits form.
// French national numbers ("06 12 34 56 78", "06.12.34.56.78") become
// "+33612345678"; numbers already carrying a country code keep it. The
// result is deterministic and idempotent; inputs that do not look like a
// phone number at all come back unchanged.
func NormalizePhone(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 10 && strings.HasPrefix(d, "0"):
		return "+33" + d[1:]
	case strings.HasPrefix(trimmed, "+") && len(d) >= 8:
		return "+" + d
	case strings.HasPrefix(d, "33") && len(d) == 11:
		return "+" + d
	case len(d) >= 8 && len(d) <= 15:
		return "+" + d
	}
	return trimmed
}

// PlausiblePhone reports whether the value passes the digit-count heuristic
// the analyzer uses: 8 to 15 digits once separators are stripped.
func PlausiblePhone(s string) bool {
	count := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			count++
		case r == ' ' || r == '.' || r == '-' || r == '(' || r == ')' || r == '+' || r == '/':
			// separator, fine
		default:
			return false
		}
	}
	return count >= 8 && count <= 15
}

// TitleCaseName title-cases a personal or company name, preserving hyphens
// and apostrophes ("jean-pierre d'arcy" -> "Jean-Pierre D'Arcy"). Idempotent.
func TitleCaseName(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	startOfWord := true
	for _, r := range trimmed {
		switch {
		case r == ' ' || r == '-' || r == '\'':
			b.WriteRune(r)
			startOfWord = true
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeKey canonicalizes a value for duplicate grouping: trim, case-fold,
// strip diacritics, collapse inner whitespace. Idempotent by construction.
func NormalizeKey(s string) string {
	folded := strings.ToLower(strings.TrimSpace(s))
	stripped, _, err := transform.String(deaccent, folded)
	if err != nil {
		stripped = folded
	}
	return strings.Join(strings.Fields(stripped), " ")
}
