// Package importer loads the customer and loan spreadsheets into the store.
//
// Customers are matched on first name, last name and phone so that running
// an import twice does not duplicate them. Loans are attached through the
// sheet's own customer ids and are stored as they appear in the sheet: the
// threshold approver is not consulted.
package importer

import (
	"context"
	"errors"
	"fmt"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/infrastructure/monitoring"
	"loan-eligibility/internal/pkg/apperrors"
	"loan-eligibility/internal/pkg/clock"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	CustomerFile = "customer_data.xlsx"
	LoanFile     = "loan_data.xlsx"

	sheetCustomers = "customers"
	sheetLoans     = "loans"

	resultCreated  = "created"
	resultExisting = "existing"
	resultSkipped  = "skipped"
	resultFailed   = "failed"

	placeholderDomain = "local.invalid"
	maxEmailAttempts  = 1000
)

type Result struct {
	CustomersCreated int
	LoansCreated     int
}

type Importer struct {
	customers customer.CustomerRepository
	loans     loan.Repository
	clock     clock.Clock
	logger    *slog.Logger
}

func NewImporter(customers customer.CustomerRepository, loans loan.Repository, clk clock.Clock, logger *slog.Logger) *Importer {
	if customers == nil || loans == nil {
		panic("importer requires customer and loan repositories")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Importer{
		customers: customers,
		loans:     loans,
		clock:     clk,
		logger:    logger.With("component", "importer"),
	}
}

// ImportDir reads customer_data.xlsx and loan_data.xlsx from dir. Both files
// must be readable before anything is written.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*Result, error) {
	customerRows, err := readCustomers(filepath.Join(dir, CustomerFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read customers spreadsheet: %w", err)
	}
	loanRows, err := readLoans(filepath.Join(dir, LoanFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read loans spreadsheet: %w", err)
	}

	im.logger.InfoContext(ctx, "Starting spreadsheet import",
		slog.String("dir", dir),
		slog.Int("customerRows", len(customerRows)),
		slog.Int("loanRows", len(loanRows)),
	)

	created, idMap, err := im.importCustomers(ctx, customerRows)
	if err != nil {
		return nil, err
	}
	im.logger.InfoContext(ctx, "Imported customers", slog.Int("created", created), slog.Int("mapped", len(idMap)))

	loansCreated, err := im.importLoans(ctx, loanRows, idMap)
	if err != nil {
		return nil, err
	}
	im.logger.InfoContext(ctx, "Imported loans", slog.Int("created", loansCreated))

	return &Result{CustomersCreated: created, LoansCreated: loansCreated}, nil
}

func (im *Importer) importCustomers(ctx context.Context, rows []customerRow) (int, map[int64]int64, error) {
	created := 0
	idMap := make(map[int64]int64, len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return created, idMap, err
		}
		log := im.logger.With(slog.Int("row", row.line))

		if row.empty() {
			log.WarnContext(ctx, "Skipping empty customer row")
			monitoring.RecordImportedRow(sheetCustomers, resultSkipped)
			continue
		}

		cust, isNew, err := im.getOrCreateCustomer(ctx, row)
		if err != nil {
			if ctx.Err() != nil {
				return created, idMap, ctx.Err()
			}
			log.WarnContext(ctx, "Failed to import customer row", slog.Any("error", err))
			monitoring.RecordImportedRow(sheetCustomers, resultFailed)
			continue
		}

		if !isNew && row.approvedLimit != nil {
			limit := *row.approvedLimit
			cust.ApprovedLimit = &limit
			if err := im.customers.Update(ctx, cust); err != nil {
				log.WarnContext(ctx, "Failed to refresh approved limit", slog.Int64("customerID", cust.ID), slog.Any("error", err))
			}
		}

		if row.sheetID != nil {
			idMap[*row.sheetID] = cust.ID
		}
		if isNew {
			created++
			monitoring.RecordImportedRow(sheetCustomers, resultCreated)
		} else {
			monitoring.RecordImportedRow(sheetCustomers, resultExisting)
		}
	}
	return created, idMap, nil
}

func (im *Importer) getOrCreateCustomer(ctx context.Context, row customerRow) (*customer.Customer, bool, error) {
	existing, err := im.customers.FindByIdentity(ctx, row.firstName, row.lastName, row.phone)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	email, err := im.uniqueEmail(ctx, row.placeholderEmail())
	if err != nil {
		return nil, false, err
	}

	cust := &customer.Customer{
		FirstName:     row.firstName,
		LastName:      row.lastName,
		Email:         email,
		Phone:         row.phone,
		MonthlyIncome: row.monthlyIncome,
		ApprovedLimit: row.approvedLimit,
	}
	if row.age != nil {
		dob := customer.BirthDateForAge(*row.age, im.clock.Now())
		cust.DateOfBirth = &dob
	}

	if err := im.customers.Save(ctx, cust); err != nil {
		return nil, false, err
	}
	return cust, true, nil
}

// uniqueEmail appends _1, _2, ... to the local part until no stored
// customer uses the address.
func (im *Importer) uniqueEmail(ctx context.Context, base string) (string, error) {
	local, domain, _ := strings.Cut(base, "@")
	candidate := base
	for counter := 1; counter <= maxEmailAttempts; counter++ {
		_, err := im.customers.FindByEmail(ctx, candidate)
		if errors.Is(err, apperrors.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s_%d@%s", local, counter, domain)
	}
	return "", fmt.Errorf("%w: no free placeholder email for %s", apperrors.ErrConflict, base)
}

func (im *Importer) importLoans(ctx context.Context, rows []loanRow, idMap map[int64]int64) (int, error) {
	created := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		log := im.logger.With(slog.Int("row", row.line))

		customerID, ok := lookup(idMap, row.sheetCustomerID)
		if !ok {
			log.WarnContext(ctx, "Customer not found for loan row, skipping", slog.String("sheetCustomerID", formatID(row.sheetCustomerID)))
			monitoring.RecordImportedRow(sheetLoans, resultSkipped)
			continue
		}

		l, err := row.toLoan(customerID)
		if err != nil {
			log.WarnContext(ctx, "Invalid loan row, skipping", slog.Any("error", err))
			monitoring.RecordImportedRow(sheetLoans, resultSkipped)
			continue
		}

		if _, err := im.loans.CreateLoan(ctx, l); err != nil {
			if ctx.Err() != nil {
				return created, ctx.Err()
			}
			log.WarnContext(ctx, "Failed to create loan from row", slog.Int64("customerID", customerID), slog.Any("error", err))
			monitoring.RecordImportedRow(sheetLoans, resultFailed)
			continue
		}
		created++
		monitoring.RecordImportedRow(sheetLoans, resultCreated)
	}
	return created, nil
}

func lookup(idMap map[int64]int64, sheetID *int64) (int64, bool) {
	if sheetID == nil {
		return 0, false
	}
	id, ok := idMap[*sheetID]
	return id, ok
}

func formatID(id *int64) string {
	if id == nil {
		return "<missing>"
	}
	return strconv.FormatInt(*id, 10)
}
