package customer

import (
	"context"
)

// Repository reports a missing row as (nil, nil), never as an error.
type Repository interface {
	FindByID(ctx context.Context, id ID) (*Customer, error)
	FindActiveByID(ctx context.Context, id ID) (*Customer, error)
	FindAllActive(ctx context.Context) (Customers, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	// Save inserts c when c.ID is zero and updates the row with c.ID otherwise.
	Save(ctx context.Context, c Customer) (*Customer, error)
}
