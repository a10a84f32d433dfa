package customer

import (
	"context"
	"errors"
	"fmt"
	"loan-eligibility/internal/event"
	"loan-eligibility/internal/infrastructure/monitoring"
	"loan-eligibility/internal/pkg/apperrors"
	"loan-eligibility/internal/pkg/clock"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	inputValidationPassed = "Input validation passed"
	customerNotFound      = "Customer not found by repository"
)

// RegisterInput carries the fields accepted by the registration endpoint.
// Age is only used when DateOfBirth is absent.
type RegisterInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Age           *int
	DateOfBirth   *time.Time
	MonthlyIncome float64
}

type CustomerService interface {
	Register(ctx context.Context, in RegisterInput) (*Customer, error)
	CreateCustomer(ctx context.Context, cust *Customer) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, cust *Customer) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.Publisher
	clock  clock.Clock
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, pub event.Publisher, clk clock.Clock, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if pub == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, events will only be logged")
		pub = event.NewLogPublisher(logger)
	}

	if clk == nil {
		clk = clock.System()
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		clock:  clk,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) Register(ctx context.Context, in RegisterInput) (*Customer, error) {
	log := s.logger.With(slog.String("operation", "Register"))
	log.InfoContext(ctx, "Attempting to register customer")

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.MonthlyIncome < 0 {
		log.WarnContext(ctx, "Validation failed: negative monthly income")
		return nil, apperrors.NewValidationError("monthly_income", "must not be negative")
	}
	if in.Age != nil && *in.Age < 0 {
		log.WarnContext(ctx, "Validation failed: negative age")
		return nil, apperrors.NewValidationError("age", "must not be negative")
	}
	if in.Email == "" {
		if in.Phone == "" {
			log.WarnContext(ctx, "Validation failed: neither email nor phone given")
			return nil, apperrors.NewValidationError("phone_number", "phone number is required when no email is given")
		}
		in.Email = fmt.Sprintf("phone_%s@local.invalid", in.Phone)
	}

	income := in.MonthlyIncome
	limit := ApprovedLimitFor(income)
	cust := &Customer{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		MonthlyIncome: &income,
		ApprovedLimit: &limit,
		DateOfBirth:   in.DateOfBirth,
	}
	if in.Phone != "" {
		phone := in.Phone
		cust.Phone = &phone
	}
	if cust.DateOfBirth == nil && in.Age != nil {
		dob := BirthDateForAge(*in.Age, s.clock.Now())
		cust.DateOfBirth = &dob
	}

	created, err := s.CreateCustomer(ctx, cust)
	if err != nil {
		return nil, err
	}

	monitoring.RecordCustomerRegistered()

	registered := event.CustomerRegisteredEvent{
		EventID:       event.NewEventID(),
		CustomerID:    created.ID,
		FirstName:     created.FirstName,
		LastName:      created.LastName,
		ApprovedLimit: limit,
		MonthlyIncome: income,
		Timestamp:     s.clock.Now(),
	}
	if pubErr := s.pub.PublishCustomerRegistered(ctx, registered); pubErr != nil {
		log.ErrorContext(ctx, "Customer registered, but FAILED to publish registration event", slog.Any("error", pubErr))
	}

	log.InfoContext(ctx, "Successfully registered customer",
		slog.Int64("customerID", created.ID),
		slog.Float64("approvedLimit", limit),
	)
	return created, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, cust *Customer) (*Customer, error) {
	log := s.logger.With(slog.String("operation", "CreateCustomer"))
	log.InfoContext(ctx, "Attempting to create new customer")

	if err := validate(cust); err != nil {
		log.WarnContext(ctx, "Validation failed", slog.Any("error", err))
		return nil, err
	}
	log.InfoContext(ctx, inputValidationPassed)

	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			log.WarnContext(ctx, "Customer with the same email or phone already exists")
			return nil, err
		}
		log.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	log.InfoContext(ctx, "Successfully created new customer", slog.Int64("customerID", cust.ID))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to get customer by ID")

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return nil, apperrors.ErrCustomerNotFound
		}
		log.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	log.InfoContext(ctx, "Successfully retrieved customer")
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, cust *Customer) (*Customer, error) {
	if cust == nil {
		return nil, apperrors.NewValidationError("", "customer cannot be nil")
	}
	log := s.logger.With(slog.Int64("customerID", cust.ID))
	log.InfoContext(ctx, "Attempting to update customer")

	if err := validate(cust); err != nil {
		log.WarnContext(ctx, "Validation failed", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.Update(ctx, cust); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			log.WarnContext(ctx, customerNotFound)
			return nil, apperrors.ErrCustomerNotFound
		case errors.Is(err, apperrors.ErrAlreadyExists):
			log.WarnContext(ctx, "Update collides with another customer's email or phone")
			return nil, err
		}
		log.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", cust.ID, err)
	}

	log.InfoContext(ctx, "Successfully updated customer")
	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to delete customer")

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return apperrors.ErrCustomerNotFound
		}
		log.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	log.InfoContext(ctx, "Successfully deleted customer")
	return nil
}

func validate(cust *Customer) error {
	if cust == nil {
		return apperrors.NewValidationError("", "customer cannot be nil")
	}
	cust.FirstName = strings.TrimSpace(cust.FirstName)
	cust.LastName = strings.TrimSpace(cust.LastName)
	cust.Email = strings.TrimSpace(cust.Email)

	if cust.FirstName == "" {
		return apperrors.NewValidationError("first_name", "cannot be empty")
	}
	if cust.LastName == "" {
		return apperrors.NewValidationError("last_name", "cannot be empty")
	}
	if cust.Email == "" || !strings.Contains(cust.Email, "@") {
		return apperrors.NewValidationError("email", "must be a valid email address")
	}
	if cust.ApprovedLimit != nil && *cust.ApprovedLimit < 0 {
		return apperrors.NewValidationError("approved_limit", "must not be negative")
	}
	if cust.MonthlyIncome != nil && *cust.MonthlyIncome < 0 {
		return apperrors.NewValidationError("monthly_income", "must not be negative")
	}
	return nil
}
