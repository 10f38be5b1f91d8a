package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedIdentifier is returned when a GUID or subnet prefix cannot be
// canonicalized. It is the only fatal input condition of a conversion.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// IdentifierError describes a single identifier that failed canonicalization
type IdentifierError struct {
	Value  string
	Reason string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("malformed identifier %q: %s", e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedIdentifier
func (e *IdentifierError) Unwrap() error {
	return ErrMalformedIdentifier
}

const (
	guidDigits    = 16
	canonicalSize = guidDigits + 3
)

// CanonicalID converts a raw 64-bit identifier ("0x" followed by 16 hex
// digits) into four colon separated groups of four digits:
//
//	0x0123456789abcdef -> 0123:4567:89ab:cdef
//
// Digit case is preserved. An identifier that is already canonical is
// returned unchanged.
func CanonicalID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if IsCanonicalID(s) {
		return s, nil
	}

	if len(s) < 2 || (s[:2] != "0x" && s[:2] != "0X") {
		return "", &IdentifierError{Value: raw, Reason: "missing 0x prefix"}
	}

	digits := s[2:]
	if len(digits) != guidDigits {
		return "", &IdentifierError{
			Value:  raw,
			Reason: fmt.Sprintf("expected %d hex digits, got %d", guidDigits, len(digits)),
		}
	}
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return "", &IdentifierError{
				Value:  raw,
				Reason: fmt.Sprintf("invalid hex digit %q", digits[i]),
			}
		}
	}

	var b strings.Builder
	b.Grow(canonicalSize)
	for i := 0; i < guidDigits; i += 4 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(digits[i : i+4])
	}
	return b.String(), nil
}

// IsCanonicalID reports whether s is already in xxxx:xxxx:xxxx:xxxx form
func IsCanonicalID(s string) bool {
	if len(s) != canonicalSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i%5 == 4 {
			if s[i] != ':' {
				return false
			}
			continue
		}
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
