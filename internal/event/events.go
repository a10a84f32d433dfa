package event

import (
	"time"

	"github.com/google/uuid"
)

type LoanDecidedEvent struct {
	EventID               string    `json:"eventId"`
	CustomerID            int64     `json:"customerId"`
	LoanID                *int64    `json:"loanId,omitempty"`
	Approved              bool      `json:"approved"`
	Score                 int       `json:"score"`
	LoanAmount            float64   `json:"loanAmount"`
	InterestRate          float64   `json:"interestRate"`
	CorrectedInterestRate float64   `json:"correctedInterestRate"`
	Tenure                int       `json:"tenure"`
	MonthlyInstallment    float64   `json:"monthlyInstallment"`
	Timestamp             time.Time `json:"timestamp"`
}

type CustomerRegisteredEvent struct {
	EventID       string    `json:"eventId"`
	CustomerID    int64     `json:"customerId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	ApprovedLimit float64   `json:"approvedLimit"`
	MonthlyIncome float64   `json:"monthlyIncome"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewEventID returns a random id used as the AMQP message id.
func NewEventID() string {
	return uuid.NewString()
}
