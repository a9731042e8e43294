package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const maxCollateralLength = 20

const (
	msgInvalidAmount        = "Amount must be between 10,000 and 200,000."
	msgInvalidInterest      = "Interest must be between 7 and 20."
	msgInvalidDuration      = "Duration must be between 12 and 60 months."
	msgCollateralEmpty      = "Collateral cannot be empty."
	msgCollateralTooLong    = "Collateral must have a maximum of 20 characters."
	msgCollateralCharacters = "Collateral must only contain English letters and spaces."
	msgInterestMismatch     = "Interest must match the calculated APR."
)

var (
	reCollateral = regexp.MustCompile(`^[A-Za-z ]+$`)
	reUUIDv4     = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

// ValidationResult reports the outcome of a validation rule set. Message is
// set only when Valid is false and describes the first rule that failed.
type ValidationResult struct {
	Valid   bool
	Message string
}

// Err converts a failed result into an ErrValidation error.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return NewError(ErrValidation, r.Message)
}

func valid() ValidationResult { return ValidationResult{Valid: true} }

func invalid(msg string) ValidationResult { return ValidationResult{Message: msg} }

// ValidateLoanFields checks the numeric terms and collateral of a loan.
// Rules run in a fixed order and stop at the first failure:
//
//  1. interest equals ComputeRate(duration) exactly
//  2. amount within [MinAmount, MaxAmount]
//  3. interest within [BaseRate, MaxRate]
//  4. duration within [MinDurationMonths, MaxDurationMonths]
//  5. collateral passes ValidateCollateral
func ValidateLoanFields(amount, interest float64, duration int, collateral string) ValidationResult {
	expected := ComputeRate(duration)
	if expected != interest {
		return invalid(fmt.Sprintf("%s Expected APR: %s%%, received: %s%%.",
			msgInterestMismatch, fixed2(expected), fixed2(interest)))
	}

	if amount < MinAmount || amount > MaxAmount {
		return invalid(msgInvalidAmount)
	}

	if interest < BaseRate || interest > MaxRate {
		return invalid(msgInvalidInterest)
	}

	if duration < MinDurationMonths || duration > MaxDurationMonths {
		return invalid(msgInvalidDuration)
	}

	return ValidateCollateral(collateral)
}

// ValidateCollateral checks that the collateral description is non-blank, at
// most 20 characters long and made of ASCII letters and spaces only.
func ValidateCollateral(text string) ValidationResult {
	if strings.TrimSpace(text) == "" {
		return invalid(msgCollateralEmpty)
	}
	if utf8.RuneCountInString(text) > maxCollateralLength {
		return invalid(msgCollateralTooLong)
	}
	if !reCollateral.MatchString(text) {
		return invalid(msgCollateralCharacters)
	}
	return valid()
}

// IsValidUUID reports whether value is a version 4 UUID in canonical
// 8-4-4-4-12 form. Case is ignored.
func IsValidUUID(value string) bool {
	return reUUIDv4.MatchString(value)
}

func fixed2(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}
