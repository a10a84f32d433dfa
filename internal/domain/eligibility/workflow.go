// Package eligibility decides whether a customer may take a new loan. The
// check and create entry points share one evaluation so that identical
// inputs always produce identical scores, rates and installments.
package eligibility

import (
	"context"
	"fmt"
	"loan-eligibility/internal/domain/credit"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/event"
	"loan-eligibility/internal/infrastructure/monitoring"
	"loan-eligibility/internal/pkg/apperrors"
	"loan-eligibility/internal/pkg/clock"
	"loan-eligibility/internal/pkg/coerce"
	"log/slog"
	"os"
)

const (
	MessageApproved = "Loan approved"
	MessageRejected = "Loan not approved due to credit score or debt limit"

	entrypointCheck  = "check"
	entrypointCreate = "create"
)

type Request struct {
	CustomerID   int64
	LoanAmount   float64
	InterestRate float64
	Tenure       int
}

type Decision struct {
	CustomerID            int64
	Approved              bool
	Score                 int
	LoanAmount            float64
	InterestRate          float64
	CorrectedInterestRate float64
	Tenure                int
	MonthlyInstallment    float64
	LoanID                *int64
	Message               string
}

type Service interface {
	CheckEligibility(ctx context.Context, req Request) (*Decision, error)

	CreateLoan(ctx context.Context, req Request) (*Decision, error)

	ViewLoan(ctx context.Context, loanID int64) (*LoanView, error)

	ViewLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error)
}

type Workflow struct {
	customers customer.CustomerService
	loans     loan.Repository
	scorer    *credit.Scorer
	pub       event.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

var _ Service = (*Workflow)(nil)

func NewWorkflow(customers customer.CustomerService, loans loan.Repository, pub event.Publisher, clk clock.Clock, logger *slog.Logger) *Workflow {
	if customers == nil || loans == nil {
		panic("eligibility workflow requires customer service and loan repository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if clk == nil {
		clk = clock.System()
	}
	if pub == nil {
		pub = event.NewLogPublisher(logger)
	}
	return &Workflow{
		customers: customers,
		loans:     loans,
		scorer:    credit.NewScorer(clk),
		pub:       pub,
		clock:     clk,
		logger:    logger.With(slog.String("component", "eligibilityWorkflow")),
	}
}

// CheckEligibility quotes a decision without persisting anything.
func (w *Workflow) CheckEligibility(ctx context.Context, req Request) (*Decision, error) {
	decision, err := w.evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	monitoring.RecordDecision(entrypointCheck, decision.Approved, string(credit.TierFor(decision.Score)), decision.Score)
	return decision, nil
}

// CreateLoan evaluates the request and stores an APPROVED loan when the
// decision allows it. Rejections are returned without touching the store.
func (w *Workflow) CreateLoan(ctx context.Context, req Request) (*Decision, error) {
	log := w.logger.With(slog.Int64("customerID", req.CustomerID), slog.String("operation", "CreateLoan"))

	decision, err := w.evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	monitoring.RecordDecision(entrypointCreate, decision.Approved, string(credit.TierFor(decision.Score)), decision.Score)

	if !decision.Approved {
		decision.Message = MessageRejected
		log.InfoContext(ctx, "Loan rejected", slog.Int("score", decision.Score))
		w.publish(ctx, decision)
		return decision, nil
	}

	l, err := loan.NewLoan(req.CustomerID, req.LoanAmount, req.Tenure, decision.CorrectedInterestRate)
	if err != nil {
		return nil, err
	}
	l.MonthlyInstallment = decision.MonthlyInstallment
	l.CreatedAt = w.clock.Now()
	if err := l.Approve(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInternalServer, err)
	}

	created, err := w.loans.CreateLoan(ctx, l)
	if err != nil {
		log.ErrorContext(ctx, "Failed to persist approved loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to persist approved loan: %w", apperrors.ErrInternalServer, err)
	}

	loanID := created.ID
	decision.LoanID = &loanID
	decision.Message = MessageApproved
	log.InfoContext(ctx, "Loan approved and stored", slog.Int64("loanID", loanID))
	w.publish(ctx, decision)
	return decision, nil
}

func (w *Workflow) evaluate(ctx context.Context, req Request) (*Decision, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	cust, err := w.customers.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	history, err := w.loans.ListLoansByCustomer(ctx, cust.ID)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to load loan history", slog.Int64("customerID", cust.ID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to load loan history for customer %d: %w", cust.ID, err)
	}

	score := w.scorer.Score(cust, history)
	approved, corrected := credit.Correct(score, req.InterestRate)
	installment := credit.EMI(req.LoanAmount, req.Tenure, corrected)

	w.logger.DebugContext(ctx, "Evaluated eligibility",
		slog.Int64("customerID", cust.ID),
		slog.Int("loans", len(history)),
		slog.Int("score", score),
		slog.Bool("approved", approved),
		slog.Float64("correctedRate", corrected),
	)

	return &Decision{
		CustomerID:            cust.ID,
		Approved:              approved,
		Score:                 score,
		LoanAmount:            req.LoanAmount,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: corrected,
		Tenure:                req.Tenure,
		MonthlyInstallment:    installment,
	}, nil
}

func (w *Workflow) publish(ctx context.Context, d *Decision) {
	evt := event.LoanDecidedEvent{
		EventID:               event.NewEventID(),
		CustomerID:            d.CustomerID,
		LoanID:                d.LoanID,
		Approved:              d.Approved,
		Score:                 d.Score,
		LoanAmount:            d.LoanAmount,
		InterestRate:          d.InterestRate,
		CorrectedInterestRate: d.CorrectedInterestRate,
		Tenure:                d.Tenure,
		MonthlyInstallment:    d.MonthlyInstallment,
		Timestamp:             w.clock.Now(),
	}
	if err := w.pub.PublishLoanDecided(ctx, evt); err != nil {
		w.logger.ErrorContext(ctx, "Decision made, but FAILED to publish loan decided event", slog.Any("error", err))
	}
}

func validate(req Request) error {
	if req.CustomerID <= 0 {
		return apperrors.NewValidationError("customer_id", "must be a positive id")
	}
	if req.LoanAmount < 0 || !coerce.Finite(req.LoanAmount) {
		return apperrors.NewValidationError("loan_amount", "must be a non-negative number")
	}
	if !coerce.Finite(req.InterestRate) {
		return apperrors.NewValidationError("interest_rate", "must be a number")
	}
	if req.Tenure < 1 {
		return apperrors.NewValidationError("tenure", "must be at least 1 month")
	}
	return nil
}
