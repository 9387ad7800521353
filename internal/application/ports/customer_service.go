package ports

import (
	"context"

	"customer-manager-api/internal/domain/customer"
	dto "customer-manager-api/internal/interface/api/rest/dto/customer"
)

// CustomerService speaks transfer shapes only; persisted entities never leave it.
type CustomerService interface {
	CreateCustomer(ctx context.Context, in dto.Customer) (*dto.Customer, error)
	FindActiveCustomers(ctx context.Context) (dto.Customers, error)
	FindActiveCustomerByID(ctx context.Context, id customer.ID) (*dto.Customer, error)
	UpdateCustomer(ctx context.Context, id customer.ID, changes dto.Customer) (*dto.Customer, error)
	DeleteCustomer(ctx context.Context, id customer.ID) error
	FindByEmail(ctx context.Context, email string) (*dto.Customer, error)
}
