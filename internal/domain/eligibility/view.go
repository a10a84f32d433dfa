package eligibility

import (
	"context"
	"errors"
	"fmt"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/pkg/apperrors"
	"log/slog"
)

type CustomerSummary struct {
	ID          int64
	FirstName   string
	LastName    string
	PhoneNumber string
	Age         *int
}

type LoanView struct {
	Loan     *loan.Loan
	Customer CustomerSummary
}

func (w *Workflow) ViewLoan(ctx context.Context, loanID int64) (*LoanView, error) {
	l, err := w.loans.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			w.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
			return nil, apperrors.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}

	cust, err := w.customers.GetCustomer(ctx, l.CustomerID)
	if err != nil {
		return nil, err
	}

	return &LoanView{Loan: l, Customer: w.summarize(cust)}, nil
}

func (w *Workflow) ViewLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	if _, err := w.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := w.loans.ListLoansByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}
	return loans, nil
}

func (w *Workflow) summarize(c *customer.Customer) CustomerSummary {
	summary := CustomerSummary{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber(),
	}
	if age, ok := c.Age(w.clock.Now()); ok {
		summary.Age = &age
	}
	return summary
}
