package credit

import (
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/pkg/clock"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	scoringNow = time.Date(2024, time.August, 1, 12, 0, 0, 0, time.UTC)
	thisYear   = time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)
	lastYear   = time.Date(2023, time.May, 20, 0, 0, 0, 0, time.UTC)
)

func limit(v float64) *float64 { return &v }

func flag(v bool) *bool { return &v }

func newScorer() *Scorer { return NewScorer(clock.Fixed(scoringNow)) }

func TestScorer_NoLoansScoresMax(t *testing.T) {
	s := newScorer()

	assert.Equal(t, 100, s.Score(&customer.Customer{ApprovedLimit: limit(1000)}, nil))
	assert.Equal(t, 100, s.Score(&customer.Customer{}, []*loan.Loan{}))
	assert.Equal(t, 100, s.Score(nil, nil))
}

func TestScorer_ApprovedDebtOverCeilingScoresZero(t *testing.T) {
	s := newScorer()
	cust := &customer.Customer{ApprovedLimit: limit(1000)}
	loans := []*loan.Loan{
		{Amount: 1500, Status: loan.StatusApproved, EMIsPaidOnTime: flag(true), CreatedAt: lastYear},
	}

	assert.Equal(t, 0, s.Score(cust, loans))
}

func TestScorer_DebtAtCeilingIsNotOverLimit(t *testing.T) {
	s := newScorer()
	cust := &customer.Customer{ApprovedLimit: limit(1000)}
	loans := []*loan.Loan{{Amount: 1000, Status: loan.StatusApproved, CreatedAt: lastYear}}

	// 40 on time + 20 no recent loans + 0 headroom
	assert.Equal(t, 60, s.Score(cust, loans))
}

func TestScorer_PendingAndRejectedDoNotCountAsDebt(t *testing.T) {
	s := newScorer()
	cust := &customer.Customer{ApprovedLimit: limit(1000)}
	loans := []*loan.Loan{
		{Amount: 5000, Status: loan.StatusPending, CreatedAt: lastYear},
		{Amount: 5000, Status: loan.StatusRejected, CreatedAt: lastYear},
	}

	// total exceeds the ceiling so headroom is 0, but nothing approved
	assert.Equal(t, 60, s.Score(cust, loans))
}

func TestScorer_Components(t *testing.T) {
	s := newScorer()

	tests := []struct {
		name     string
		ceiling  *float64
		loans    []*loan.Loan
		expected int
	}{
		{
			name:    "mixed history",
			ceiling: limit(10000),
			loans: []*loan.Loan{
				{Amount: 1000, Status: loan.StatusApproved, CreatedAt: thisYear},
				{Amount: 500, Status: loan.StatusPending, CreatedAt: thisYear},
			},
			// 40 + 20*(1-0.2) + 40*(1-0.15) = 40 + 16 + 34
			expected: 90,
		},
		{
			name:    "half paid late",
			ceiling: limit(10000),
			loans: []*loan.Loan{
				{Amount: 2500, Status: loan.StatusApproved, EMIsPaidOnTime: flag(false), CreatedAt: lastYear},
				{Amount: 2500, Status: loan.StatusApproved, EMIsPaidOnTime: flag(true), CreatedAt: lastYear},
			},
			// 20 + 20 + 40*0.5
			expected: 60,
		},
		{
			name:     "ten recent loans remove the recency component",
			ceiling:  limit(1000000),
			loans:    repeat(10, &loan.Loan{Amount: 0, Status: loan.StatusPending, CreatedAt: thisYear}),
			expected: 80,
		},
		{
			name:     "more than ten recent loans are capped",
			ceiling:  limit(1000000),
			loans:    repeat(25, &loan.Loan{Amount: 0, Status: loan.StatusPending, CreatedAt: thisYear}),
			expected: 80,
		},
		{
			name:    "fractional result is floored",
			ceiling: limit(3000),
			loans: []*loan.Loan{
				{Amount: 1000, Status: loan.StatusPending, CreatedAt: lastYear},
			},
			// 40 + 20 + 40*(2/3) = 86.67
			expected: 86,
		},
		{
			name:    "missing ceiling counts as one",
			ceiling: nil,
			loans: []*loan.Loan{
				{Amount: 0.5, Status: loan.StatusApproved, CreatedAt: lastYear},
			},
			// 40 + 20 + 40*0.5
			expected: 80,
		},
		{
			name:    "zero ceiling with approved debt is over limit",
			ceiling: limit(0),
			loans: []*loan.Loan{
				{Amount: 2, Status: loan.StatusApproved, CreatedAt: lastYear},
			},
			expected: 0,
		},
		{
			name:    "non-finite amount zeroes the sums",
			ceiling: limit(100),
			loans: []*loan.Loan{
				{Amount: math.NaN(), Status: loan.StatusApproved, CreatedAt: lastYear},
				{Amount: 500, Status: loan.StatusApproved, CreatedAt: lastYear},
			},
			expected: 100,
		},
		{
			name:    "loan without creation time is not recent",
			ceiling: limit(1000000),
			loans:   []*loan.Loan{{Amount: 0, Status: loan.StatusPending}},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cust := &customer.Customer{ApprovedLimit: tt.ceiling}
			assert.Equal(t, tt.expected, s.Score(cust, tt.loans))
		})
	}
}

func TestScorer_RecentYearUsesUTC(t *testing.T) {
	newYear := time.Date(2025, time.January, 1, 0, 30, 0, 0, time.UTC)
	s := NewScorer(clock.Fixed(newYear))

	// 23:30 on Dec 31 in UTC-1 is already Jan 1 in UTC
	west := time.FixedZone("UTC-1", -3600)
	created := time.Date(2024, time.December, 31, 23, 30, 0, 0, west)
	loans := repeat(10, &loan.Loan{Amount: 0, Status: loan.StatusPending, CreatedAt: created})

	assert.Equal(t, 80, s.Score(&customer.Customer{ApprovedLimit: limit(100)}, loans))
}

func TestScorer_AlwaysWithinBounds(t *testing.T) {
	s := newScorer()
	amounts := []float64{0, 1, 999, 1e6, 1e12, -500}
	ceilings := []*float64{nil, limit(0), limit(1), limit(1e6)}
	statuses := []loan.Status{loan.StatusPending, loan.StatusApproved, loan.StatusRejected}

	for _, amount := range amounts {
		for _, ceiling := range ceilings {
			for _, status := range statuses {
				loans := []*loan.Loan{
					{Amount: amount, Status: status, EMIsPaidOnTime: flag(false), CreatedAt: thisYear},
					{Amount: amount, Status: loan.StatusApproved, CreatedAt: lastYear},
				}
				score := s.Score(&customer.Customer{ApprovedLimit: ceiling}, loans)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}

func repeat(n int, l *loan.Loan) []*loan.Loan {
	out := make([]*loan.Loan, n)
	for i := range out {
		c := *l
		out[i] = &c
	}
	return out
}
