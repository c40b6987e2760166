// Package phone implements the storefront's Safaricom number rules.
package phone

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrRequired      = errors.New("phone number is required")
	ErrInvalidFormat = errors.New("please enter a valid Safaricom number (e.g., 0712345678)")
	ErrNotSafaricom  = errors.New("please enter a valid Safaricom number")
)

var (
	// ASCII and Unicode whitespace, BOM, dashes and parentheses.
	separators = regexp.MustCompile(`[\s\x0B\p{Z}\x{FEFF}()-]`)
	formats    = []*regexp.Regexp{
		regexp.MustCompile(`^07\d{8}$`),
		regexp.MustCompile(`^\+2547\d{8}$`),
		regexp.MustCompile(`^2547\d{8}$`),
	}
)

func Clean(phone string) string {
	return separators.ReplaceAllString(phone, "")
}

func Validate(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return ErrRequired
	}

	cleaned := Clean(phone)

	matched := false
	for _, format := range formats {
		if format.MatchString(cleaned) {
			matched = true
			break
		}
	}
	if !matched {
		return ErrInvalidFormat
	}

	if strings.HasPrefix(cleaned, "07") && cleaned[2] == '0' {
		return ErrNotSafaricom
	}

	return nil
}

// Normalize rewrites local (0...) and +254 numbers into the bare 254 form.
// Anything else is returned unchanged.
func Normalize(phone string) string {
	switch {
	case strings.HasPrefix(phone, "0"):
		return "254" + phone[1:]
	case strings.HasPrefix(phone, "+254"):
		return phone[1:]
	}

	return phone
}
