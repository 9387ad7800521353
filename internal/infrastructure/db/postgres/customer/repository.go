package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"customer-manager-api/internal/domain/customer"
	"customer-manager-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) customer.Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the customers table when it does not exist yet.
func EnsureSchema(ctx context.Context, db postgres.DB) error {
	if _, err := db.Exec(ctx, CreateTable); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}
	return nil
}

func scan(row pgx.Row) (*Customer, error) {
	c := new(Customer)
	if err := row.Scan(
		&c.ID,

		&c.Created,
		&c.Updated,

		&c.FullName,
		&c.Email,
		&c.Phone,
		&c.IsActive,
	); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*customer.Customer, error) {
	c, err := scan(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(c), nil
}

func (r *Repository) FindByID(ctx context.Context, id customer.ID) (*customer.Customer, error) {
	return r.findOne(ctx, SelectCustomerByID, int64(id))
}

func (r *Repository) FindActiveByID(ctx context.Context, id customer.ID) (*customer.Customer, error) {
	return r.findOne(ctx, SelectActiveCustomerByID, int64(id))
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.findOne(ctx, SelectCustomerByEmail, email)
}

func (r *Repository) FindAllActive(ctx context.Context) (customer.Customers, error) {
	rows, err := r.db.Query(ctx, SelectActiveCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cs := Customers{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&cs), nil
}

func (r *Repository) Save(ctx context.Context, req customer.Customer) (*customer.Customer, error) {
	if req.ID == 0 {
		return r.insert(ctx, req)
	}
	return r.update(ctx, req)
}

func (r *Repository) insert(ctx context.Context, req customer.Customer) (*customer.Customer, error) {
	c, err := scan(r.db.QueryRow(
		ctx,
		InsertCustomer,
		req.Created, req.Updated, req.FullName, req.Email, req.Phone, req.IsActive,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(c), nil
}

func (r *Repository) update(ctx context.Context, req customer.Customer) (*customer.Customer, error) {
	c, err := scan(r.db.QueryRow(
		ctx,
		UpdateCustomerByID,
		req.Updated, req.FullName, req.Email, req.Phone, req.IsActive, int64(req.ID),
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(c), nil
}
