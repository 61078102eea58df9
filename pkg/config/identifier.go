package config

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned when no healthcheck id was configured.
var ErrMissingID = errors.New("no healthcheck id given (use --hcp-id or HCP_ID)")

// Identifier names the healthcheck a run reports to. It has the shape of a
// UUID: five groups of 8-4-4-4-12 ASCII letters or digits.
type Identifier string

// ParseIdentifier validates the shape of s.
func ParseIdentifier(s string) (Identifier, error) {
	if s == "" {
		return "", ErrMissingID
	}
	if !validShape(s) {
		return "", fmt.Errorf("healthcheck id isn't a valid uuid %q", s)
	}
	return Identifier(s), nil
}

// String returns the identifier text.
func (id Identifier) String() string { return string(id) }

func validShape(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !isAlnum(c) {
				return false
			}
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
