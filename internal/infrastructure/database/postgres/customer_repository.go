package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/infrastructure/monitoring"
	"loan-eligibility/internal/pkg/apperrors"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, first_name, last_name, email, phone, date_of_birth, monthly_income, approved_limit, created_at, updated_at`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("email", cust.Email))

	query := `
        INSERT INTO customers (first_name, last_name, email, phone, date_of_birth, monthly_income, approved_limit, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	startTime := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.FirstName,
		cust.LastName,
		cust.Email,
		cust.Phone,
		cust.DateOfBirth,
		cust.MonthlyIncome,
		cust.ApprovedLimit,
	).Scan(
		&cust.ID,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	monitoring.RecordDBQuery("InsertCustomer", queryStatus(err), time.Since(startTime))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation", slog.String("email", cust.Email))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to insert customer")
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	logCtx := r.logger.With(slog.Int64("customerID", cust.ID))
	logCtx.InfoContext(ctx, "Attempting to update customer")

	query := `
        UPDATE customers
        SET first_name = $1,
            last_name = $2,
            email = $3,
            phone = $4,
            date_of_birth = $5,
            monthly_income = $6,
            approved_limit = $7,
            updated_at = NOW()
        WHERE id = $8
        RETURNING created_at, updated_at`

	startTime := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.FirstName,
		cust.LastName,
		cust.Email,
		cust.Phone,
		cust.DateOfBirth,
		cust.MonthlyIncome,
		cust.ApprovedLimit,
		cust.ID,
	).Scan(&cust.CreatedAt, &cust.UpdatedAt)
	monitoring.RecordDBQuery("UpdateCustomer", queryStatus(err), time.Since(startTime))

	if err != nil {
		translatedErr := translateDBError(err, logCtx)
		switch {
		case errors.Is(translatedErr, apperrors.ErrNotFound):
			logCtx.WarnContext(ctx, "Update matched no rows, customer not found")
			return apperrors.ErrNotFound
		case errors.Is(translatedErr, apperrors.ErrAlreadyExists):
			logCtx.WarnContext(ctx, "Failed to update customer due to unique constraint violation")
			return translatedErr
		}
		logCtx.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to update customer")
	}

	logCtx.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + `
        FROM customers
        WHERE id = $1`

	return r.findOne(ctx, "FindCustomerByID", query, customerID)
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + `
        FROM customers
        WHERE email = $1`

	return r.findOne(ctx, "FindCustomerByEmail", query, email)
}

func (r *CustomerRepository) FindByIdentity(ctx context.Context, firstName, lastName string, phone *string) (*customer.Customer, error) {
	if phone == nil {
		query := `SELECT ` + customerColumns + `
        FROM customers
        WHERE first_name = $1 AND last_name = $2 AND phone IS NULL
        ORDER BY id ASC LIMIT 1`
		return r.findOne(ctx, "FindCustomerByIdentity", query, firstName, lastName)
	}

	query := `SELECT ` + customerColumns + `
        FROM customers
        WHERE first_name = $1 AND last_name = $2 AND phone = $3
        ORDER BY id ASC LIMIT 1`
	return r.findOne(ctx, "FindCustomerByIdentity", query, firstName, lastName, *phone)
}

func (r *CustomerRepository) findOne(ctx context.Context, queryName, query string, args ...any) (*customer.Customer, error) {
	logCtx := r.logger.With(slog.String("operation", queryName))

	startTime := time.Now()
	cust, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	monitoring.RecordDBQuery(queryName, queryStatus(err), time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.DebugContext(ctx, "Customer not found")
			return nil, apperrors.ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Failed to query/scan customer", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to get customer")
	}

	return cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find all customers")

	query := `SELECT ` + customerColumns + `
        FROM customers
        ORDER BY id ASC`

	startTime := time.Now()
	rows, err := r.db.Query(ctx, query)
	monitoring.RecordDBQuery("FindAllCustomers", queryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to query customers")
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, apperrors.WrapDatabaseError(err, "failed to scan customer row")
		}
		customers = append(customers, cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "error iterating customer rows")
	}

	r.logger.InfoContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	r.logger.InfoContext(ctx, "Attempting to delete customer", slog.Int64("customerID", customerID))

	query := `DELETE FROM customers WHERE id = $1`

	startTime := time.Now()
	cmdTag, err := r.db.Exec(ctx, query, customerID)
	monitoring.RecordDBQuery("DeleteCustomer", queryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to delete customer")
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.ID,
		&cust.FirstName,
		&cust.LastName,
		&cust.Email,
		&cust.Phone,
		&cust.DateOfBirth,
		&cust.MonthlyIncome,
		&cust.ApprovedLimit,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}
