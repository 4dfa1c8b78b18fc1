package utils

import (
	"regexp"
	"strings"
)

// IsPasswordValid enforces password policy (≥8 chars, one uppercase,
// one lowercase, one digit).
func IsPasswordValid(p string) bool {
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// SanitizeInput trims, strips angle brackets, and caps length at 255.
func SanitizeInput(input string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(input))
	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}
	return cleaned
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[+]?[\d\s\-()]{8,}$`)
)

// IsValidContact validates a contact value for the chosen method.
func IsValidContact(method, value string) bool {
	trimmed := strings.TrimSpace(value)
	switch method {
	case "email":
		return emailRe.MatchString(trimmed)
	case "phone", "whatsapp":
		return phoneRe.MatchString(trimmed)
	case "discord":
		return len(trimmed) >= 2
	default:
		return false
	}
}
