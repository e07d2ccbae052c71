package enums

import "fmt"

// VerificationState tracks the customer phone-verification machine.
type VerificationState string

const (
	VerificationStateIdle     VerificationState = "idle"
	VerificationStatePending  VerificationState = "pending"
	VerificationStateNew      VerificationState = "new"
	VerificationStateExisting VerificationState = "existing"
	VerificationStateError    VerificationState = "error"
)

var validVerificationStates = []VerificationState{
	VerificationStateIdle,
	VerificationStatePending,
	VerificationStateNew,
	VerificationStateExisting,
	VerificationStateError,
}

// String implements fmt.Stringer.
func (v VerificationState) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VerificationState.
func (v VerificationState) IsValid() bool {
	for _, candidate := range validVerificationStates {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVerificationState converts raw input into a VerificationState.
func ParseVerificationState(value string) (VerificationState, error) {
	for _, candidate := range validVerificationStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification state %q", value)
}
