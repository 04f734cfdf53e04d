package rewrite

import (
	"regexp"
	"strings"
	"unicode"
)

// Replacer substitutes every case-insensitive occurrence of a token,
// matching the casing of each occurrence.
type Replacer struct {
	pattern  *regexp.Regexp
	newToken string
}

// NewReplacer compiles a Replacer for oldToken. oldToken is matched literally.
func NewReplacer(oldToken, newToken string) *Replacer {
	return &Replacer{
		pattern:  regexp.MustCompile("(?i)" + regexp.QuoteMeta(oldToken)),
		newToken: newToken,
	}
}

// Contains reports whether s holds the token in any casing
func (r *Replacer) Contains(s string) bool {
	return r.pattern.MatchString(s)
}

// Replace rewrites every match in s. Each match is classified on its own.
func (r *Replacer) Replace(s string) string {
	return r.pattern.ReplaceAllStringFunc(s, func(match string) string {
		return MatchCase(match, r.newToken)
	})
}

// CasePreservingReplace is a one-shot form of NewReplacer(old, new).Replace(s)
func CasePreservingReplace(s, oldToken, newToken string) string {
	return NewReplacer(oldToken, newToken).Replace(s)
}

// MatchCase renders token in the casing pattern of match:
// ALL UPPER, all lower, Capitalized, or token unchanged for anything else.
func MatchCase(match, token string) string {
	switch {
	case isUpper(match):
		return strings.ToUpper(token)
	case isLower(match):
		return strings.ToLower(token)
	case isCapitalized(match):
		return capitalize(token)
	default:
		return token
	}
}

// isUpper is true when s has at least one cased rune and none of them is lower case
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func isLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

// isCapitalized is true for an upper-case first rune followed by an all-lower remainder
func isCapitalized(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}
	return isLower(string(runes[1:]))
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
