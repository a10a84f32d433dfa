package loan

import (
	"fmt"
	"loan-eligibility/internal/pkg/apperrors"
	"time"
)

type Money = float64

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var validStatuses = map[string]Status{
	string(StatusPending):  StatusPending,
	string(StatusApproved): StatusApproved,
	string(StatusRejected): StatusRejected,
}

func ParseStatus(s string) (Status, error) {
	st, ok := validStatuses[s]
	if !ok {
		return "", fmt.Errorf("%w: unknown loan status %q", apperrors.ErrInvalidArgument, s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

func (s Status) Decided() bool { return s == StatusApproved || s == StatusRejected }

type Loan struct {
	ID                 int64
	CustomerID         int64
	Amount             Money
	TenureMonths       int
	InterestRate       float64
	MonthlyInstallment Money
	Status             Status
	EMIsPaidOnTime     *bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewLoan returns a PENDING loan. Tenure must be at least one month.
func NewLoan(customerID int64, amount Money, tenureMonths int, interestRate float64) (*Loan, error) {
	if customerID <= 0 {
		return nil, apperrors.NewValidationError("customer_id", "must be a positive id")
	}
	if tenureMonths < 1 {
		return nil, apperrors.NewValidationError("tenure", "must be at least 1 month")
	}
	return &Loan{
		CustomerID:   customerID,
		Amount:       amount,
		TenureMonths: tenureMonths,
		InterestRate: interestRate,
		Status:       StatusPending,
	}, nil
}

func (l *Loan) Approve() error {
	return l.transition(StatusApproved)
}

func (l *Loan) Reject() error {
	return l.transition(StatusRejected)
}

// Reevaluate puts a decided loan back to PENDING so that a rule can decide it
// again. It is the only way out of APPROVED or REJECTED.
func (l *Loan) Reevaluate() {
	l.Status = StatusPending
}

func (l *Loan) transition(to Status) error {
	if l.Status == "" {
		l.Status = StatusPending
	}
	if l.Status != StatusPending {
		return fmt.Errorf("%w: loan %d is already %s", apperrors.ErrInvalidTransition, l.ID, l.Status)
	}
	l.Status = to
	return nil
}

// PaidOnTime reports the on-time flag, defaulting to true when unknown.
func (l *Loan) PaidOnTime() bool {
	if l.EMIsPaidOnTime == nil {
		return true
	}
	return *l.EMIsPaidOnTime
}
