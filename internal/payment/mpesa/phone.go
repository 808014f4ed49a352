package mpesa

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

const countryCode = "254"

// NormalizePhone coerces common local formats into the canonical
// international form the gateway expects: digits only, country code first.
// Accepted inputs: "0712345678", "712345678", "254712345678" and
// "+254712345678" (with optional spaces or dashes). Mobile numbers start
// with 7 or 1 after the country code.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else if r != '+' && r != ' ' && r != '-' && r != '(' && r != ')' {
			return "", ErrInvalidPhone
		}
	}

	n := digits.String()
	switch {
	case len(n) == 10 && n[0] == '0':
		// Local trunk prefix: 07XXXXXXXX -> 2547XXXXXXXX
		n = countryCode + n[1:]
	case len(n) == 9:
		n = countryCode + n
	}

	if len(n) != 12 || !strings.HasPrefix(n, countryCode) {
		return "", ErrInvalidPhone
	}
	if n[3] != '7' && n[3] != '1' {
		return "", ErrInvalidPhone
	}

	return n, nil
}
