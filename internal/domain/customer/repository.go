package customer

import (
	"context"
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	Update(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindByIdentity matches first name, last name and phone. A nil phone
	// matches rows without a phone.
	FindByIdentity(ctx context.Context, firstName, lastName string, phone *string) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	Delete(ctx context.Context, customerID int64) error
}
