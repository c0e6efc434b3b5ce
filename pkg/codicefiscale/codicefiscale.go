// Package codicefiscale verifies the structure and check character of an
// Italian codice fiscale.
package codicefiscale

import (
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`^[A-Z0-9]{16}$`)

// Odd/even weight tables over "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ".
// Odd positions (0-based even index) use a fixed permutation; even positions
// map digits to their value and letters to their alphabet offset.
var oddWeights = [36]int{
	1, 0, 5, 7, 9, 13, 15, 17, 19, 21,
	1, 0, 5, 7, 9, 13, 15, 17, 19, 21,
	2, 4, 18, 20, 11, 3, 6, 8, 12, 14, 16, 10, 22, 25, 24, 23,
}

func charIndex(c byte) int {
	if c >= '0' && c <= '9' {
		return int(c - '0')
	}
	return 10 + int(c-'A')
}

// Valid reports whether code is a structurally valid codice fiscale.
// The empty string is accepted: presence is the caller's concern.
// Input is trimmed and upper-cased before checking.
func Valid(code string) bool {
	if code == "" {
		return true
	}
	cf := strings.ToUpper(strings.TrimSpace(code))
	if !pattern.MatchString(cf) {
		return false
	}
	sum := 0
	for i := 0; i < 15; i++ {
		idx := charIndex(cf[i])
		if i%2 == 0 {
			sum += oddWeights[idx]
		} else {
			if cf[i] >= '0' && cf[i] <= '9' {
				sum += int(cf[i] - '0')
			} else {
				sum += int(cf[i] - 'A')
			}
		}
	}
	return cf[15] == byte('A'+sum%26)
}
