package eligibility_test

import (
	"context"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/pkg/apperrors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestViewLoan(t *testing.T) {
	ctx := context.Background()
	dob := time.Date(1990, time.December, 1, 0, 0, 0, 0, time.UTC)
	phone := "9000000001"

	t.Run("joins the owning customer", func(t *testing.T) {
		f := newFixture()
		l := &loan.Loan{ID: 8, CustomerID: 3, Amount: 2000, Status: loan.StatusApproved}
		f.loans.On("GetLoanByID", ctx, int64(8)).Return(l, nil)
		f.customers.On("GetCustomer", ctx, int64(3)).Return(&customer.Customer{
			ID: 3, FirstName: "Meera", LastName: "Iyer", Phone: &phone, DateOfBirth: &dob,
		}, nil)

		view, err := f.workflow.ViewLoan(ctx, 8)

		require.NoError(t, err)
		assert.Equal(t, l, view.Loan)
		assert.Equal(t, "Meera", view.Customer.FirstName)
		assert.Equal(t, phone, view.Customer.PhoneNumber)
		require.NotNil(t, view.Customer.Age)
		assert.Equal(t, 33, *view.Customer.Age)
	})

	t.Run("age omitted without date of birth", func(t *testing.T) {
		f := newFixture()
		f.loans.On("GetLoanByID", ctx, int64(8)).Return(&loan.Loan{ID: 8, CustomerID: 3}, nil)
		f.customers.On("GetCustomer", ctx, int64(3)).Return(&customer.Customer{ID: 3}, nil)

		view, err := f.workflow.ViewLoan(ctx, 8)
		require.NoError(t, err)
		assert.Nil(t, view.Customer.Age)
	})

	t.Run("unknown loan", func(t *testing.T) {
		f := newFixture()
		f.loans.On("GetLoanByID", ctx, int64(8)).Return(nil, apperrors.ErrNotFound)

		_, err := f.workflow.ViewLoan(ctx, 8)
		assert.ErrorIs(t, err, apperrors.ErrLoanNotFound)
		f.customers.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})

	t.Run("owning customer missing", func(t *testing.T) {
		f := newFixture()
		f.loans.On("GetLoanByID", ctx, int64(8)).Return(&loan.Loan{ID: 8, CustomerID: 3}, nil)
		f.customers.On("GetCustomer", ctx, int64(3)).Return(nil, apperrors.ErrCustomerNotFound)

		_, err := f.workflow.ViewLoan(ctx, 8)
		assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
	})
}

func TestViewLoansByCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("lists loans", func(t *testing.T) {
		f := newFixture()
		f.customers.On("GetCustomer", ctx, int64(3)).Return(&customer.Customer{ID: 3}, nil)
		f.loans.On("ListLoansByCustomer", ctx, int64(3)).Return([]*loan.Loan{{ID: 1}, {ID: 2}}, nil)

		loans, err := f.workflow.ViewLoansByCustomer(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, loans, 2)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture()
		f.customers.On("GetCustomer", ctx, int64(3)).Return(nil, apperrors.ErrCustomerNotFound)

		_, err := f.workflow.ViewLoansByCustomer(ctx, 3)
		assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
		f.loans.AssertNotCalled(t, "ListLoansByCustomer", mock.Anything, mock.Anything)
	})
}
