package dto

import (
	"loan-eligibility/internal/domain/customer"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// RegisterRequest accepts phone_number as a JSON string or number.
type RegisterRequest struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         string   `json:"email,omitempty"`
	Age           *int     `json:"age,omitempty"`
	DateOfBirth   *string  `json:"date_of_birth,omitempty"`
	MonthlyIncome *float64 `json:"monthly_income"`
	PhoneNumber   any      `json:"phone_number"`
}

func (r *RegisterRequest) ToDomain() (customer.RegisterInput, error) {
	if strings.TrimSpace(r.FirstName) == "" {
		return customer.RegisterInput{}, fieldError("first_name", "is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return customer.RegisterInput{}, fieldError("last_name", "is required")
	}
	if r.MonthlyIncome == nil || !finite(*r.MonthlyIncome) || *r.MonthlyIncome < 0 {
		return customer.RegisterInput{}, fieldError("monthly_income", "must be a non-negative number")
	}
	dob, err := parseDate("date_of_birth", r.DateOfBirth)
	if err != nil {
		return customer.RegisterInput{}, err
	}
	if dob == nil && r.Age == nil {
		return customer.RegisterInput{}, fieldError("age", "age or date_of_birth is required")
	}
	if r.Age != nil && *r.Age < 0 {
		return customer.RegisterInput{}, fieldError("age", "must not be negative")
	}
	phone, err := cast.ToStringE(r.PhoneNumber)
	if err != nil {
		return customer.RegisterInput{}, fieldError("phone_number", "must be a string or number")
	}

	return customer.RegisterInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Phone:         strings.TrimSpace(phone),
		Age:           r.Age,
		DateOfBirth:   dob,
		MonthlyIncome: *r.MonthlyIncome,
	}, nil
}

type RegisterResponse struct {
	CustomerID    int64   `json:"customer_id"`
	Name          string  `json:"name"`
	Age           *int    `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   string  `json:"phone_number"`
}

func NewRegisterResponse(c *customer.Customer, now time.Time) RegisterResponse {
	resp := RegisterResponse{
		CustomerID:  c.ID,
		Name:        strings.TrimSpace(c.FirstName + " " + c.LastName),
		PhoneNumber: c.PhoneNumber(),
	}
	if age, ok := c.Age(now); ok {
		resp.Age = &age
	}
	if c.MonthlyIncome != nil {
		resp.MonthlyIncome = *c.MonthlyIncome
	}
	if c.ApprovedLimit != nil {
		resp.ApprovedLimit = *c.ApprovedLimit
	}
	return resp
}

// CustomerRequest is the body of the generic customer create and update
// endpoints.
type CustomerRequest struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         string   `json:"email"`
	PhoneNumber   *string  `json:"phone_number,omitempty"`
	DateOfBirth   *string  `json:"date_of_birth,omitempty"`
	MonthlyIncome *float64 `json:"monthly_income,omitempty"`
	ApprovedLimit *float64 `json:"approved_limit,omitempty"`
}

func (r *CustomerRequest) ToDomain(id int64) (*customer.Customer, error) {
	dob, err := parseDate("date_of_birth", r.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if r.MonthlyIncome != nil && !finite(*r.MonthlyIncome) {
		return nil, fieldError("monthly_income", "must be a finite number")
	}
	if r.ApprovedLimit != nil && !finite(*r.ApprovedLimit) {
		return nil, fieldError("approved_limit", "must be a finite number")
	}
	var phone *string
	if r.PhoneNumber != nil && strings.TrimSpace(*r.PhoneNumber) != "" {
		p := strings.TrimSpace(*r.PhoneNumber)
		phone = &p
	}

	return &customer.Customer{
		ID:            id,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Phone:         phone,
		DateOfBirth:   dob,
		MonthlyIncome: r.MonthlyIncome,
		ApprovedLimit: r.ApprovedLimit,
	}, nil
}

type CustomerResponse struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	PhoneNumber   *string   `json:"phone_number"`
	DateOfBirth   *string   `json:"date_of_birth"`
	MonthlyIncome *float64  `json:"monthly_income"`
	ApprovedLimit *float64  `json:"approved_limit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	if c == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		PhoneNumber:   c.Phone,
		DateOfBirth:   formatDate(c.DateOfBirth),
		MonthlyIncome: c.MonthlyIncome,
		ApprovedLimit: c.ApprovedLimit,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func NewCustomerResponses(customers []*customer.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerResponse(c))
	}
	return out
}
