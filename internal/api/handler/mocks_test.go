package handler

import (
	"bytes"
	"context"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/eligibility"
	"loan-eligibility/internal/domain/loan"
	"log/slog"

	"github.com/stretchr/testify/mock"
)

var testLogger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

type MockEligibilityService struct {
	mock.Mock
}

func (m *MockEligibilityService) CheckEligibility(ctx context.Context, req eligibility.Request) (*eligibility.Decision, error) {
	args := m.Called(ctx, req)
	if d, ok := args.Get(0).(*eligibility.Decision); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEligibilityService) CreateLoan(ctx context.Context, req eligibility.Request) (*eligibility.Decision, error) {
	args := m.Called(ctx, req)
	if d, ok := args.Get(0).(*eligibility.Decision); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEligibilityService) ViewLoan(ctx context.Context, loanID int64) (*eligibility.LoanView, error) {
	args := m.Called(ctx, loanID)
	if v, ok := args.Get(0).(*eligibility.LoanView); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEligibilityService) ViewLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	args := m.Called(ctx, customerID)
	if l, ok := args.Get(0).([]*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Register(ctx context.Context, in customer.RegisterInput) (*customer.Customer, error) {
	args := m.Called(ctx, in)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, cust *customer.Customer) (*customer.Customer, error) {
	args := m.Called(ctx, cust)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	if c, ok := args.Get(0).([]*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, cust *customer.Customer) (*customer.Customer, error) {
	args := m.Called(ctx, cust)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	args := m.Called(ctx, l)
	if created, ok := args.Get(0).(*loan.Loan); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) UpdateLoan(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	args := m.Called(ctx, l)
	if updated, ok := args.Get(0).(*loan.Loan); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context) ([]*loan.Loan, error) {
	args := m.Called(ctx)
	if l, ok := args.Get(0).([]*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	args := m.Called(ctx, customerID)
	if l, ok := args.Get(0).([]*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) DeleteLoan(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
