package dto

import (
	"loan-eligibility/internal/domain/eligibility"
	"loan-eligibility/internal/domain/loan"
	"math"
)

// EligibilityRequest is shared by /check-eligibility and /create-loan.
type EligibilityRequest struct {
	CustomerID   *int64   `json:"customer_id"`
	LoanAmount   *float64 `json:"loan_amount"`
	InterestRate *float64 `json:"interest_rate"`
	Tenure       *int     `json:"tenure"`
}

func (r *EligibilityRequest) Validate() error {
	switch {
	case r.CustomerID == nil:
		return fieldError("customer_id", "is required")
	case r.LoanAmount == nil:
		return fieldError("loan_amount", "is required")
	case r.InterestRate == nil:
		return fieldError("interest_rate", "is required")
	case r.Tenure == nil:
		return fieldError("tenure", "is required")
	}
	return nil
}

func (r *EligibilityRequest) ToDomain() eligibility.Request {
	return eligibility.Request{
		CustomerID:   deref(r.CustomerID),
		LoanAmount:   deref(r.LoanAmount),
		InterestRate: deref(r.InterestRate),
		Tenure:       deref(r.Tenure),
	}
}

type CheckEligibilityResponse struct {
	CustomerID            int64   `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
}

func NewCheckEligibilityResponse(d *eligibility.Decision) CheckEligibilityResponse {
	return CheckEligibilityResponse{
		CustomerID:            d.CustomerID,
		Approval:              d.Approved,
		InterestRate:          d.InterestRate,
		CorrectedInterestRate: d.CorrectedInterestRate,
		Tenure:                d.Tenure,
		MonthlyInstallment:    d.MonthlyInstallment,
	}
}

type CreateLoanResponse struct {
	LoanID             *int64  `json:"loan_id"`
	CustomerID         int64   `json:"customer_id"`
	LoanApproved       bool    `json:"loan_approved"`
	Message            string  `json:"message"`
	MonthlyInstallment float64 `json:"monthly_installment"`
}

func NewCreateLoanResponse(d *eligibility.Decision) CreateLoanResponse {
	return CreateLoanResponse{
		LoanID:             d.LoanID,
		CustomerID:         d.CustomerID,
		LoanApproved:       d.Approved,
		Message:            d.Message,
		MonthlyInstallment: d.MonthlyInstallment,
	}
}

type LoanCustomerResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         *int   `json:"age"`
}

type ViewLoanResponse struct {
	LoanID             int64                `json:"loan_id"`
	Customer           LoanCustomerResponse `json:"customer"`
	LoanAmount         float64              `json:"loan_amount"`
	InterestRate       float64              `json:"interest_rate"`
	MonthlyInstallment float64              `json:"monthly_installment"`
	Tenure             int                  `json:"tenure"`
	Status             string               `json:"status"`
}

func NewViewLoanResponse(v *eligibility.LoanView) ViewLoanResponse {
	return ViewLoanResponse{
		LoanID: v.Loan.ID,
		Customer: LoanCustomerResponse{
			ID:          v.Customer.ID,
			FirstName:   v.Customer.FirstName,
			LastName:    v.Customer.LastName,
			PhoneNumber: v.Customer.PhoneNumber,
			Age:         v.Customer.Age,
		},
		LoanAmount:         v.Loan.Amount,
		InterestRate:       v.Loan.InterestRate,
		MonthlyInstallment: v.Loan.MonthlyInstallment,
		Tenure:             v.Loan.TenureMonths,
		Status:             v.Loan.Status.String(),
	}
}

type CustomerLoanItem struct {
	LoanID             int64   `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	Tenure             int     `json:"tenure"`
	Status             string  `json:"status"`
}

func NewCustomerLoanItems(loans []*loan.Loan) []CustomerLoanItem {
	items := make([]CustomerLoanItem, 0, len(loans))
	for _, l := range loans {
		items = append(items, CustomerLoanItem{
			LoanID:             l.ID,
			LoanAmount:         l.Amount,
			InterestRate:       l.InterestRate,
			MonthlyInstallment: l.MonthlyInstallment,
			Tenure:             l.TenureMonths,
			Status:             l.Status.String(),
		})
	}
	return items
}

func deref[T int | int64 | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
