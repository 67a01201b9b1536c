package domain

import "strings"

// phoneKeyDigits is the number of trailing digits kept as the lookup key
const phoneKeyDigits = 10

// NormalizePhone strips every non-digit and keeps the last ten digits.
// Inputs with fewer than ten digits are returned as whatever digits remain.
func NormalizePhone(raw string) string {
	digits := phoneDigits(raw)
	if len(digits) > phoneKeyDigits {
		return digits[len(digits)-phoneKeyDigits:]
	}
	return digits
}

// FormatE164 formats a phone for SMS delivery, assuming +1 for ten-digit numbers
func FormatE164(raw string) string {
	digits := phoneDigits(raw)
	if len(digits) == phoneKeyDigits {
		return "+1" + digits
	}
	return "+" + digits
}

func phoneDigits(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}
