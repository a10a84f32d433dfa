package customer_test

import (
	"context"
	"errors"
	"io"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/event"
	"loan-eligibility/internal/pkg/apperrors"
	"loan-eligibility/internal/pkg/clock"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishLoanDecided(ctx context.Context, e event.LoanDecidedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishCustomerRegistered(ctx context.Context, e event.CustomerRegisteredEvent) error {
	return m.Called(ctx, e).Error(0)
}

var now = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func setupTest() (*customer.MockCustomerRepository, *mockPublisher, customer.CustomerService) {
	mockRepo := new(customer.MockCustomerRepository)
	mockPub := new(mockPublisher)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := customer.NewCustomerService(mockRepo, mockPub, clock.Fixed(now), logger)
	return mockRepo, mockPub, service
}

func intPtr(i int) *int { return &i }

func TestCustomerService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()

		mockRepo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.FirstName == "Asha" && c.LastName == "Rao" &&
				c.Email == "asha@example.com" &&
				c.ApprovedLimit != nil && *c.ApprovedLimit == 1800000 &&
				c.MonthlyIncome != nil && *c.MonthlyIncome == 50000 &&
				c.DateOfBirth != nil && c.DateOfBirth.Year() == 1994
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*customer.Customer).ID = 11
		}).Return(nil).Once()
		mockPub.On("PublishCustomerRegistered", ctx, mock.MatchedBy(func(e event.CustomerRegisteredEvent) bool {
			return e.CustomerID == 11 && e.ApprovedLimit == 1800000 && e.EventID != ""
		})).Return(nil).Once()

		created, err := service.Register(ctx, customer.RegisterInput{
			FirstName:     "  Asha ",
			LastName:      "Rao",
			Email:         "asha@example.com",
			Phone:         "9876543210",
			Age:           intPtr(30),
			MonthlyIncome: 50000,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(11), created.ID)
		assert.Equal(t, "9876543210", created.PhoneNumber())
		age, ok := created.Age(now)
		assert.True(t, ok)
		assert.Equal(t, 30, age)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Placeholder email from phone", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()

		mockRepo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.Email == "phone_5550100@local.invalid"
		})).Return(nil).Once()
		mockPub.On("PublishCustomerRegistered", ctx, mock.Anything).Return(nil).Once()

		_, err := service.Register(ctx, customer.RegisterInput{
			FirstName: "Ravi", LastName: "K", Phone: "5550100", MonthlyIncome: 20000,
		})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Publish failure does not fail registration", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()

		mockRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
		mockPub.On("PublishCustomerRegistered", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		created, err := service.Register(ctx, customer.RegisterInput{
			FirstName: "A", LastName: "B", Email: "a@b.c", MonthlyIncome: 1000,
		})
		require.NoError(t, err)
		assert.NotNil(t, created)
	})

	t.Run("Error - no contact", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()

		_, err := service.Register(ctx, customer.RegisterInput{FirstName: "A", LastName: "B", MonthlyIncome: 1000})

		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "phone_number", vErr.Field)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		mockPub.AssertNotCalled(t, "PublishCustomerRegistered", mock.Anything, mock.Anything)
	})

	t.Run("Error - negative income", func(t *testing.T) {
		_, _, service := setupTest()

		_, err := service.Register(ctx, customer.RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.c", MonthlyIncome: -1})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Error - duplicate", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("Save", ctx, mock.Anything).Return(apperrors.ErrAlreadyExists).Once()

		_, err := service.Register(ctx, customer.RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.c"})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		mockPub.AssertNotCalled(t, "PublishCustomerRegistered", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Error - Empty first name", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		_, err := service.CreateCustomer(ctx, &customer.Customer{LastName: "B", Email: "a@b.c"})

		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "first_name", vErr.Field)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Invalid email", func(t *testing.T) {
		_, _, service := setupTest()
		_, err := service.CreateCustomer(ctx, &customer.Customer{FirstName: "A", LastName: "B", Email: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Error - Repository Save Failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("database connection failed")
		mockRepo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(dbError).Once()

		created, err := service.CreateCustomer(ctx, &customer.Customer{FirstName: "A", LastName: "B", Email: "a@b.c"})

		assert.Nil(t, created)
		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to save new customer")
		mockRepo.AssertExpectations(t)
	})
}

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()
	customerID := int64(42)

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		expected := &customer.Customer{ID: customerID, FirstName: "Test"}
		mockRepo.On("FindByID", ctx, customerID).Return(expected, nil).Once()

		cust, err := service.GetCustomer(ctx, customerID)

		assert.NoError(t, err)
		assert.Equal(t, expected, cust)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

		cust, err := service.GetCustomer(ctx, customerID)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Repository Error", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbErr := errors.New("connection reset")
		mockRepo.On("FindByID", ctx, customerID).Return(nil, dbErr).Once()

		_, err := service.GetCustomer(ctx, customerID)

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerService_ListCustomers(t *testing.T) {
	ctx := context.Background()
	mockRepo, _, service := setupTest()
	expected := []*customer.Customer{{ID: 1}, {ID: 2}}
	mockRepo.On("FindAll", ctx).Return(expected, nil).Once()

	list, err := service.ListCustomers(ctx)

	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCustomerService_UpdateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		cust := &customer.Customer{ID: 5, FirstName: "A", LastName: "B", Email: "a@b.c"}
		mockRepo.On("Update", ctx, cust).Return(nil).Once()

		updated, err := service.UpdateCustomer(ctx, cust)

		require.NoError(t, err)
		assert.Equal(t, cust, updated)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		cust := &customer.Customer{ID: 5, FirstName: "A", LastName: "B", Email: "a@b.c"}
		mockRepo.On("Update", ctx, cust).Return(apperrors.ErrNotFound).Once()

		_, err := service.UpdateCustomer(ctx, cust)
		assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
	})

	t.Run("Negative limit rejected", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		limit := -1.0
		_, err := service.UpdateCustomer(ctx, &customer.Customer{ID: 5, FirstName: "A", LastName: "B", Email: "a@b.c", ApprovedLimit: &limit})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_DeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("Delete", ctx, int64(3)).Return(nil).Once()
		assert.NoError(t, service.DeleteCustomer(ctx, 3))
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("Delete", ctx, int64(3)).Return(apperrors.ErrNotFound).Once()
		assert.ErrorIs(t, service.DeleteCustomer(ctx, 3), apperrors.ErrCustomerNotFound)
	})
}
