package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxQueryLength bounds what is sent to the search endpoint. The upstream
// rejects queries longer than 50 characters.
const MaxQueryLength = 50

// ErrEmptyQuery is returned by ValidateQuery for blank input.
var ErrEmptyQuery = errors.New("empty query")

// SanitizeQuery strips control characters from user input and clamps its
// length. Case and surrounding whitespace are preserved; normalization for
// history keys happens elsewhere.
func SanitizeQuery(q string) string {
	r := []rune(stripControl(q))
	if len(r) > MaxQueryLength {
		r = r[:MaxQueryLength]
	}
	return string(r)
}

// ValidateQuery strips control characters like SanitizeQuery but refuses
// blank or over-long input instead of cutting it.
func ValidateQuery(q string) (string, error) {
	q = stripControl(q)
	if strings.TrimSpace(q) == "" {
		return "", ErrEmptyQuery
	}
	if n := utf8.RuneCountInString(q); n > MaxQueryLength {
		return "", fmt.Errorf("query is %d characters long, the limit is %d", n, MaxQueryLength)
	}
	return q, nil
}

func stripControl(q string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, q)
}
