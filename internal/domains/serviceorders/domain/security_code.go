package domain

import (
	"crypto/subtle"
	"math/rand/v2"
	"strings"
)

const (
	codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeDigits  = "0123456789"
)

// CodeSource yields uniform integers in [0, n). *rand.Rand satisfies it.
type CodeSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultCodeSource draws from the runtime-seeded global generator.
var DefaultCodeSource CodeSource = globalSource{}

// GenerateSecurityCode returns letter, digit, letter, digit in upper case.
func GenerateSecurityCode(src CodeSource) string {
	if src == nil {
		src = DefaultCodeSource
	}
	b := []byte{
		codeLetters[src.IntN(len(codeLetters))],
		codeDigits[src.IntN(len(codeDigits))],
		codeLetters[src.IntN(len(codeLetters))],
		codeDigits[src.IntN(len(codeDigits))],
	}
	return string(b)
}

// MatchesSecurityCode compares case-insensitively in constant time.
func (o *ServiceOrder) MatchesSecurityCode(code string) bool {
	given := strings.ToUpper(strings.TrimSpace(code))
	return subtle.ConstantTimeCompare([]byte(given), []byte(o.SecurityCode)) == 1
}
