package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/infrastructure/monitoring"
	"loan-eligibility/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const loanColumns = `id, customer_id, amount, tenure_months, interest_rate, monthly_installment, status, emis_paid_on_time, created_at, updated_at`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

// CreateLoan inserts l and returns it with its id and timestamps. A zero
// CreatedAt is filled in by the database.
func (r *LoanRepository) CreateLoan(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO loans (customer_id, amount, tenure_months, interest_rate, monthly_installment, status, emis_paid_on_time, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()), NOW())
        RETURNING id, created_at, updated_at`

	created := *l
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query,
		l.CustomerID, l.Amount, l.TenureMonths, l.InterestRate,
		l.MonthlyInstallment, statusOrPending(l.Status).String(), l.EMIsPaidOnTime, nullableTime(l.CreatedAt),
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	monitoring.RecordDBQuery("InsertLoan", queryStatus(err), time.Since(startTime))

	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrValidation) {
			r.logger.WarnContext(ctx, "Loan rejected by database constraint", "customer_id", l.CustomerID, "error", err)
			return nil, translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to insert loan")
	}
	created.Status = statusOrPending(l.Status)

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID, "status", created.Status)
	return &created, nil
}

func (r *LoanRepository) UpdateLoan(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        UPDATE loans
        SET customer_id = $1,
            amount = $2,
            tenure_months = $3,
            interest_rate = $4,
            monthly_installment = $5,
            status = $6,
            emis_paid_on_time = $7,
            updated_at = NOW()
        WHERE id = $8
        RETURNING created_at, updated_at`

	updated := *l
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query,
		l.CustomerID, l.Amount, l.TenureMonths, l.InterestRate,
		l.MonthlyInstallment, statusOrPending(l.Status).String(), l.EMIsPaidOnTime, l.ID,
	).Scan(&updated.CreatedAt, &updated.UpdatedAt)
	monitoring.RecordDBQuery("UpdateLoan", queryStatus(err), time.Since(startTime))

	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrNotFound) || errors.Is(translated, apperrors.ErrValidation) {
			r.logger.WarnContext(ctx, "Loan update not applied", "loan_id", l.ID, "error", err)
			return nil, translated
		}
		r.logger.ErrorContext(ctx, "Failed to update loan", "loan_id", l.ID, "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to update loan")
	}
	updated.Status = statusOrPending(l.Status)

	return &updated, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + `
        FROM loans
        WHERE id = $1`

	startTime := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	monitoring.RecordDBQuery("GetLoanByID", queryStatus(err), time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return l, nil
}

func (r *LoanRepository) ListLoans(ctx context.Context) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + `
        FROM loans
        ORDER BY id ASC`

	return r.list(ctx, "ListLoans", query)
}

func (r *LoanRepository) ListLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + `
        FROM loans
        WHERE customer_id = $1
        ORDER BY id ASC`

	return r.list(ctx, "ListLoansByCustomer", query, customerID)
}

func (r *LoanRepository) list(ctx context.Context, queryName, query string, args ...any) ([]*loan.Loan, error) {
	logCtx := r.logger.With(slog.String("operation", queryName))

	startTime := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
		logCtx.ErrorContext(ctx, "Failed to query loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
			logCtx.ErrorContext(ctx, "Failed to scan loan row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
		logCtx.ErrorContext(ctx, "Error iterating loan rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	monitoring.RecordDBQuery(queryName, "success", time.Since(startTime))
	logCtx.DebugContext(ctx, "Loans retrieved", "count", len(loans))
	return loans, nil
}

func (r *LoanRepository) DeleteLoan(ctx context.Context, loanID int64) error {
	startTime := time.Now()
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM loans WHERE id = $1`, loanID)
	monitoring.RecordDBQuery("DeleteLoan", queryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete loan", "loan_id", loanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, loan likely not found", "loan_id", loanID)
		return apperrors.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Loan deleted", "loan_id", loanID)
	return nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var (
		l      loan.Loan
		status string
	)
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.Amount, &l.TenureMonths, &l.InterestRate,
		&l.MonthlyInstallment, &status, &l.EMIsPaidOnTime, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status, err = loan.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func statusOrPending(s loan.Status) loan.Status {
	if s == "" {
		return loan.StatusPending
	}
	return s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
