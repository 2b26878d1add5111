package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// FormatPhoneNumber formats a mobile number to a standard format
// Removes all non-digit characters and ensures it starts with country code
func FormatPhoneNumber(phoneNumber string) string {
	digits := nonDigits.ReplaceAllString(phoneNumber, "")

	// If it doesn't start with country code, assume India (+91)
	if len(digits) > 0 && !strings.HasPrefix(digits, "91") {
		// Remove leading zeros
		digits = strings.TrimLeft(digits, "0")
		// Add India country code
		digits = "91" + digits
	}

	return digits
}

// ValidatePhoneNumber validates if a mobile number is in correct format
func ValidatePhoneNumber(phoneNumber string) bool {
	cleaned := nonDigits.ReplaceAllString(phoneNumber, "")
	cleaned = strings.TrimPrefix(cleaned, "91")
	cleaned = strings.TrimLeft(cleaned, "0")

	// Indian mobile numbers are 10 digits starting with 6-9
	if len(cleaned) != 10 {
		return false
	}

	switch cleaned[0] {
	case '6', '7', '8', '9':
		return true
	}
	return false
}

// NormalizePhoneNumber normalizes a mobile number for database storage
func NormalizePhoneNumber(phoneNumber string) string {
	return FormatPhoneNumber(phoneNumber)
}

// DisplayPhoneNumber formats a mobile number for display
func DisplayPhoneNumber(phoneNumber string) string {
	formatted := FormatPhoneNumber(phoneNumber)
	if len(formatted) == 12 && strings.HasPrefix(formatted, "91") {
		// Format as +91 XXXXX XXXXX
		return "+" + formatted[:2] + " " + formatted[2:7] + " " + formatted[7:]
	}
	return phoneNumber
}
