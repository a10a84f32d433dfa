// Package credit holds the fixed rule set behind every eligibility decision:
// the 0-100 credit score, the score-tiered interest correction and the
// monthly installment. Everything here is pure and safe for concurrent use.
package credit

import (
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/pkg/clock"
	"loan-eligibility/internal/pkg/coerce"
	"math"
)

const (
	MaxScore = 100
	MinScore = 0

	onTimeWeight   = 40.0
	recencyWeight  = 20.0
	headroomWeight = 40.0

	// recentLoansForFullPenalty is the number of loans in the current year at
	// which the recency component reaches zero.
	recentLoansForFullPenalty = 10.0
)

type Scorer struct {
	clock clock.Clock
}

func NewScorer(clk clock.Clock) *Scorer {
	if clk == nil {
		clk = clock.System()
	}
	return &Scorer{clock: clk}
}

// Score rates a customer between 0 and 100 from their loan history. A
// customer without loans scores 100; one whose approved debt is above the
// credit ceiling scores 0 whatever else is true.
func (s *Scorer) Score(cust *customer.Customer, loans []*loan.Loan) int {
	if len(loans) == 0 {
		return MaxScore
	}

	year := s.clock.Now().UTC().Year()
	onTime, recent := 0, 0
	amounts := make([]float64, 0, len(loans))
	approved := make([]float64, 0, len(loans))

	for _, l := range loans {
		if l.PaidOnTime() {
			onTime++
		}
		if !l.CreatedAt.IsZero() && l.CreatedAt.UTC().Year() == year {
			recent++
		}
		amounts = append(amounts, l.Amount)
		if l.Status == loan.StatusApproved {
			approved = append(approved, l.Amount)
		}
	}

	total := coerce.Sum(amounts)
	debt := coerce.Sum(approved)
	ceiling := cust.Ceiling()

	if debt > ceiling {
		return MinScore
	}

	onTimeRatio := float64(onTime) / float64(len(loans))
	recentPenalty := clamp(float64(recent)/recentLoansForFullPenalty, 0, 1)
	headroom := math.Max(0, 1-total/ceiling)

	raw := onTimeWeight*onTimeRatio + recencyWeight*(1-recentPenalty) + headroomWeight*headroom
	return int(clamp(math.Floor(raw), MinScore, MaxScore))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
