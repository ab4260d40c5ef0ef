package utils

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// mobile prefixes after the leading 0 / country code
var validMobilePrefixes = []string{"3", "5", "7", "8", "9"}

// FormatPhoneNumber strips formatting and rewrites the number with the 84 country code.
func FormatPhoneNumber(phoneNumber string) string {
	digits := nonDigit.ReplaceAllString(phoneNumber, "")

	if len(digits) > 0 && !strings.HasPrefix(digits, "84") {
		digits = "84" + strings.TrimLeft(digits, "0")
	}

	return digits
}

// ValidatePhoneNumber accepts 0xxxxxxxxx and +84xxxxxxxxx mobile numbers.
func ValidatePhoneNumber(phoneNumber string) bool {
	cleaned := nonDigit.ReplaceAllString(phoneNumber, "")

	var subscriber string
	switch {
	case len(cleaned) == 10 && strings.HasPrefix(cleaned, "0"):
		subscriber = cleaned[1:]
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "84"):
		subscriber = cleaned[2:]
	default:
		return false
	}

	for _, prefix := range validMobilePrefixes {
		if strings.HasPrefix(subscriber, prefix) {
			return true
		}
	}
	return false
}

// NormalizePhoneNumber normalizes phone number for database storage
func NormalizePhoneNumber(phoneNumber string) string {
	return FormatPhoneNumber(phoneNumber)
}

// DisplayPhoneNumber formats phone number for display
func DisplayPhoneNumber(phoneNumber string) string {
	formatted := FormatPhoneNumber(phoneNumber)
	if len(formatted) == 11 && strings.HasPrefix(formatted, "84") {
		// +84 XXX XXX XXX
		return "+" + formatted[:2] + " " + formatted[2:5] + " " + formatted[5:8] + " " + formatted[8:]
	}
	return phoneNumber
}
