package domain

import "math"

// Rate and term bounds shared by the rate engine and loan validation.
const (
	BaseRate = 7.0
	MaxRate  = 20.0

	MinDurationMonths = 12
	MaxDurationMonths = 60

	MinAmount = 10_000.0
	MaxAmount = 200_000.0
)

// ComputeRate returns the annual interest rate (APR, in percent) for a loan of
// the given duration. The rate grows linearly from BaseRate at 12 months to
// MaxRate at 60 months and is clamped to [BaseRate, MaxRate] for any input.
//
// Stored loans must carry exactly this value as their interest.
func ComputeRate(durationMonths int) float64 {
	span := float64(MaxDurationMonths - MinDurationMonths)
	rate := BaseRate + float64(durationMonths-MinDurationMonths)/span*(MaxRate-BaseRate)
	return math.Min(math.Max(rate, BaseRate), MaxRate)
}
