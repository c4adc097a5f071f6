// Package numerology computes the life path, destiny and personal year numbers.
//
// Everything here is pure: no I/O, no clock reads, no shared mutable state.
// Callers pass the evaluation year explicitly so one request yields one answer.
package numerology

import "strings"

// Result holds the three numbers of a reading. Values are fixed once computed.
type Result struct {
	LifePathNumber     int `json:"lifePathNumber"`
	DestinyNumber      int `json:"destinyNumber"`
	PersonalYearNumber int `json:"personalYearNumber"`
}

// Compute produces all three numbers or none. Names without a single Latin
// letter are rejected rather than scored as 0.
func Compute(fullName string, birthDate BirthDate, evaluationYear int) (Result, error) {
	if strings.TrimSpace(fullName) == "" {
		return Result{}, invalidInput("full name is required")
	}
	if !HasLetters(fullName) {
		return Result{}, invalidInput("full name must contain latin letters")
	}
	if birthDate.IsZero() {
		return Result{}, invalidInput("birth date is required")
	}
	if _, err := NewBirthDate(birthDate.Year, birthDate.Month, birthDate.Day); err != nil {
		return Result{}, err
	}
	if evaluationYear < 1 {
		return Result{}, invalidInput("evaluation year must be positive")
	}

	return Result{
		LifePathNumber:     LifePathNumber(birthDate.Day, birthDate.Month, birthDate.Year),
		DestinyNumber:      DestinyNumber(fullName),
		PersonalYearNumber: PersonalYearNumber(birthDate.Day, birthDate.Month, evaluationYear),
	}, nil
}
