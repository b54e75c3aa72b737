// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]\d{5,14}$`)
	pinPattern   = regexp.MustCompile(`^\d{4}$`)
)

// NormalizePhone strips the separators people type into phone fields.
func NormalizePhone(phone string) string {
	r := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	return r.Replace(strings.TrimSpace(phone))
}

// ValidatePhone accepts local and international numbers of 6 to 15 digits
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

func ValidatePin(pin string) bool {
	return pinPattern.MatchString(pin)
}
