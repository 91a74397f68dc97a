// Package naming turns display names and spoken phrases into matching keys.
//
// Key is used for entity names: "Cube (2)", "cube2" and "CUBE" all map to
// "cube". Input is used for transcripts and keeps trailing digits, since a
// spoken number can be part of what the user means ("block one", "door 2").
// Both are pure and total.
package naming

import (
	"strings"
	"unicode"
)

// Unnamed is the key of a name with nothing left after normalization.
// Entities with this key are not reachable by voice.
const Unnamed = "unnamed"

// Key returns the canonical matching key for a display name.
// Key(Key(x)) == Key(x) for every x.
func Key(raw string) string {
	k := strings.TrimRightFunc(compact(raw), isDigit)
	if k == "" {
		return Unnamed
	}
	return k
}

// Input normalizes a spoken phrase for prefix comparison against keys.
// Unlike Key it keeps trailing digits and has no sentinel.
func Input(raw string) string {
	return compact(raw)
}

// compact lower-cases s and keeps only letters and decimal digits.
// Punctuation and whitespace (including the parentheses of a "(2)"
// duplicate suffix) are dropped.
func compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || isDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Words lower-cases s, turns every non letter/digit run into one space and
// trims the result. A '.' between two digits is kept so "7.5" survives, and
// so is a '-' that starts a number.
// "Pick-up the Ball!" becomes "pick up the ball".
func Words(s string) string {
	rs := []rune(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		switch {
		case isWordRune(r):
			b.WriteRune(r)
		case r == '.' && i > 0 && i+1 < len(rs) && isDigit(rs[i-1]) && isDigit(rs[i+1]):
			b.WriteRune(r)
		case r == '-' && i+1 < len(rs) && isDigit(rs[i+1]) && (i == 0 || !isWordRune(rs[i-1])):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
