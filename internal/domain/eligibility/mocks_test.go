package eligibility_test

import (
	"context"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Register(ctx context.Context, in customer.RegisterInput) (*customer.Customer, error) {
	args := m.Called(ctx, in)
	return customerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, cust *customer.Customer) (*customer.Customer, error) {
	args := m.Called(ctx, cust)
	return customerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	return customerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, cust *customer.Customer) (*customer.Customer, error) {
	args := m.Called(ctx, cust)
	return customerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

func customerOrNil(v any) *customer.Customer {
	if v == nil {
		return nil
	}
	return v.(*customer.Customer)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) CreateLoan(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	args := m.Called(ctx, l)
	return loanOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLoanRepository) UpdateLoan(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	args := m.Called(ctx, l)
	return loanOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	return loanOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context) ([]*loan.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) DeleteLoan(ctx context.Context, loanID int64) error {
	return m.Called(ctx, loanID).Error(0)
}

func loanOrNil(v any) *loan.Loan {
	if v == nil {
		return nil
	}
	return v.(*loan.Loan)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLoanDecided(ctx context.Context, e event.LoanDecidedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockPublisher) PublishCustomerRegistered(ctx context.Context, e event.CustomerRegisteredEvent) error {
	return m.Called(ctx, e).Error(0)
}
