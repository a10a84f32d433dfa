package credit

import (
	"loan-eligibility/internal/pkg/coerce"
	"math"
)

const (
	PreferredScore = 80
	StandardScore  = 50

	preferredDiscount = 1.0
	riskSurcharge     = 2.0
)

type Tier string

const (
	TierPreferred Tier = "preferred"
	TierStandard  Tier = "standard"
	TierDeclined  Tier = "declined"
)

func TierFor(score int) Tier {
	switch {
	case score >= PreferredScore:
		return TierPreferred
	case score >= StandardScore:
		return TierStandard
	default:
		return TierDeclined
	}
}

// Correct maps a score and a proposed annual rate to an approval and the rate
// actually offered. Preferred scores get one point off (never below zero),
// standard scores keep the rate, and anything lower is declined with two
// points added.
func Correct(score int, proposedRate float64) (bool, float64) {
	rate := coerce.Float(proposedRate, 0)

	switch TierFor(score) {
	case TierPreferred:
		return true, math.Max(0, rate-preferredDiscount)
	case TierStandard:
		return true, rate
	default:
		return false, rate + riskSurcharge
	}
}

// CorrectRaw is Correct for a rate that has not been parsed yet. Anything
// unreadable is treated as 0.
func CorrectRaw(score int, proposedRate any) (bool, float64) {
	return Correct(score, coerce.Float(proposedRate, 0))
}
