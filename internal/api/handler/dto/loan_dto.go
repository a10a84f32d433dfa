package dto

import (
	"loan-eligibility/internal/domain/loan"
	"time"
)

// LoanRequest is the body of the generic loan create and update endpoints.
// Status is not accepted; the threshold rule decides it.
type LoanRequest struct {
	CustomerID         int64    `json:"customer_id"`
	Amount             float64  `json:"amount"`
	TenureMonths       int      `json:"tenure_months"`
	InterestRate       float64  `json:"interest_rate"`
	MonthlyInstallment *float64 `json:"monthly_installment,omitempty"`
	EMIsPaidOnTime     *bool    `json:"emis_paid_on_time,omitempty"`
}

func (r *LoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fieldError("customer_id", "must be a positive id")
	}
	if !finite(r.Amount) || r.Amount < 0 {
		return fieldError("amount", "must be a non-negative number")
	}
	if r.TenureMonths < 1 {
		return fieldError("tenure_months", "must be at least 1 month")
	}
	if !finite(r.InterestRate) {
		return fieldError("interest_rate", "must be a finite number")
	}
	return nil
}

func (r *LoanRequest) ToDomain(id int64) *loan.Loan {
	return &loan.Loan{
		ID:                 id,
		CustomerID:         r.CustomerID,
		Amount:             r.Amount,
		TenureMonths:       r.TenureMonths,
		InterestRate:       r.InterestRate,
		MonthlyInstallment: deref(r.MonthlyInstallment),
		Status:             loan.StatusPending,
		EMIsPaidOnTime:     r.EMIsPaidOnTime,
	}
}

type LoanResponse struct {
	ID                 int64     `json:"id"`
	CustomerID         int64     `json:"customer_id"`
	Amount             string    `json:"amount"`
	TenureMonths       int       `json:"tenure_months"`
	InterestRate       float64   `json:"interest_rate"`
	MonthlyInstallment string    `json:"monthly_installment"`
	Status             string    `json:"status"`
	EMIsPaidOnTime     *bool     `json:"emis_paid_on_time"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	return LoanResponse{
		ID:                 l.ID,
		CustomerID:         l.CustomerID,
		Amount:             formatMoney(l.Amount),
		TenureMonths:       l.TenureMonths,
		InterestRate:       l.InterestRate,
		MonthlyInstallment: formatMoney(l.MonthlyInstallment),
		Status:             l.Status.String(),
		EMIsPaidOnTime:     l.EMIsPaidOnTime,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func NewLoanResponses(loans []*loan.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, NewLoanResponse(l))
	}
	return out
}
