package customer

import (
	"loan-eligibility/internal/pkg/coerce"
	"math"
	"time"
)

type Customer struct {
	ID            int64      `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone,omitempty"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	MonthlyIncome *float64   `json:"monthlyIncome,omitempty"`
	ApprovedLimit *float64   `json:"approvedLimit,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Ceiling is the credit ceiling used for scoring. A missing, zero or
// negative approved limit counts as 1.0.
func (c *Customer) Ceiling() float64 {
	if c == nil {
		return 1.0
	}
	return coerce.Ceiling(c.ApprovedLimit)
}

// Age returns whole years since the date of birth. The second value is false
// when no date of birth is recorded.
func (c *Customer) Age(now time.Time) (int, bool) {
	if c == nil || c.DateOfBirth == nil {
		return 0, false
	}
	dob := c.DateOfBirth.UTC()
	now = now.UTC()

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, true
}

func (c *Customer) PhoneNumber() string {
	if c == nil || c.Phone == nil {
		return ""
	}
	return *c.Phone
}

// ApprovedLimitFor is 36 months of income rounded to the nearest 100000,
// with ties going to the even multiple.
func ApprovedLimitFor(monthlyIncome float64) float64 {
	return math.RoundToEven(monthlyIncome*36/100000) * 100000
}

// BirthDateForAge is January 1st of the year the customer would have been
// born in given only an age.
func BirthDateForAge(age int, now time.Time) time.Time {
	return time.Date(now.UTC().Year()-age, time.January, 1, 0, 0, 0, 0, time.UTC)
}
