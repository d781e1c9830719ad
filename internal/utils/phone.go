package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "IN"

func IsValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	num, err := phonenumbers.Parse(s, DefaultPhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// NormalizePhone returns the E.164 form of s, or s unchanged when it cannot
// be parsed. Services store the normalized form so unique indexes compare
// numbers rather than spellings.
func NormalizePhone(s string) string {
	num, err := phonenumbers.Parse(strings.TrimSpace(s), DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return s
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
