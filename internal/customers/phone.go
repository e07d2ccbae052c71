package customers

import "strings"

// PhoneLength is the number of digits a verifiable phone number carries.
const PhoneLength = 10

// NormalizePhone strips every non-digit character and truncates at ten
// digits. Input is accepted only at the edit boundary, so the rest of the
// package deals in normalized values.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(PhoneLength)
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == PhoneLength {
			break
		}
	}
	return b.String()
}

// IsComplete reports whether the normalized value has exactly ten digits.
func IsComplete(phone string) bool {
	return len(phone) == PhoneLength
}
