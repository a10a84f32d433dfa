package loan

import (
	"context"
	"errors"
	"fmt"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/infrastructure/monitoring"
	"loan-eligibility/internal/pkg/apperrors"
	"log/slog"
	"math"
)

// LoanService manages loan records directly. Every create and update is
// decided by the ThresholdApprover; score-based decisions live in the
// eligibility workflow.
type LoanService interface {
	CreateLoan(ctx context.Context, loan *Loan) (*Loan, error)

	UpdateLoan(ctx context.Context, loan *Loan) (*Loan, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListLoans(ctx context.Context) ([]*Loan, error)

	ListLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	DeleteLoan(ctx context.Context, loanID int64) error
}

type loanServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	approver        ThresholdApprover
	logger          *slog.Logger
}

func NewLoanService(r Repository, cs customer.CustomerService, approver ThresholdApprover, logger *slog.Logger) LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &loanServiceImpl{
		repo:            r,
		customerService: cs,
		approver:        approver,
		logger:          logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, loan *Loan) (*Loan, error) {
	log := s.logger.With(slog.String("operation", "CreateLoan"))
	log.InfoContext(ctx, "Creating new loan record")

	if err := s.validate(ctx, loan); err != nil {
		log.WarnContext(ctx, "Loan record failed validation", slog.Any("error", err))
		return nil, err
	}

	s.approver.Apply(loan)
	monitoring.RecordThresholdDecision(loan.Status.String())
	log.InfoContext(ctx, "Threshold rule applied",
		slog.Float64("amount", loan.Amount),
		slog.String("status", loan.Status.String()),
	)

	created, err := s.repo.CreateLoan(ctx, loan)
	if err != nil {
		log.ErrorContext(ctx, "Failed to save loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	log.InfoContext(ctx, "Loan record created", slog.Int64("loanID", created.ID))
	return created, nil
}

func (s *loanServiceImpl) UpdateLoan(ctx context.Context, loan *Loan) (*Loan, error) {
	if loan == nil {
		return nil, apperrors.NewValidationError("", "loan cannot be nil")
	}
	log := s.logger.With(slog.String("operation", "UpdateLoan"), slog.Int64("loanID", loan.ID))
	log.InfoContext(ctx, "Updating loan record")

	existing, err := s.GetLoan(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, loan); err != nil {
		log.WarnContext(ctx, "Loan record failed validation", slog.Any("error", err))
		return nil, err
	}
	loan.CreatedAt = existing.CreatedAt

	s.approver.Apply(loan)
	monitoring.RecordThresholdDecision(loan.Status.String())
	log.InfoContext(ctx, "Threshold rule applied",
		slog.String("previousStatus", existing.Status.String()),
		slog.String("status", loan.Status.String()),
	)

	updated, err := s.repo.UpdateLoan(ctx, loan)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrLoanNotFound
		}
		log.ErrorContext(ctx, "Failed to update loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update loan %d: %w", loan.ID, err)
	}

	log.InfoContext(ctx, "Loan record updated")
	return updated, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	loan, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
			return nil, apperrors.ErrLoanNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}
	return loan, nil
}

func (s *loanServiceImpl) ListLoans(ctx context.Context) ([]*Loan, error) {
	loans, err := s.repo.ListLoans(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

func (s *loanServiceImpl) ListLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error) {
	if _, err := s.customerService.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.ListLoansByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customer loans", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}
	return loans, nil
}

func (s *loanServiceImpl) DeleteLoan(ctx context.Context, loanID int64) error {
	if err := s.repo.DeleteLoan(ctx, loanID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrLoanNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to delete loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return fmt.Errorf("failed to delete loan %d: %w", loanID, err)
	}
	s.logger.InfoContext(ctx, "Loan record deleted", slog.Int64("loanID", loanID))
	return nil
}

func (s *loanServiceImpl) validate(ctx context.Context, loan *Loan) error {
	if loan == nil {
		return apperrors.NewValidationError("", "loan cannot be nil")
	}
	if loan.Amount < 0 || math.IsNaN(loan.Amount) || math.IsInf(loan.Amount, 0) {
		return apperrors.NewValidationError("amount", "must be a non-negative number")
	}
	if loan.TenureMonths < 1 {
		return apperrors.NewValidationError("tenure", "must be at least 1 month")
	}

	_, err := s.customerService.GetCustomer(ctx, loan.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("customer_id", fmt.Sprintf("customer %d not found", loan.CustomerID))
		}
		return fmt.Errorf("failed to verify customer: %w", err)
	}
	return nil
}
