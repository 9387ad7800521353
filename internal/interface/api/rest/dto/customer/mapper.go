package customer

import (
	domain "customer-manager-api/internal/domain/customer"
)

func ToResponseCustomer(cDomain domain.Customer) Customer {
	var c = Customer{
		ID:       int64(cDomain.ID),
		Created:  cDomain.Created,
		Updated:  cDomain.Updated,
		FullName: cDomain.FullName,
		Email:    cDomain.Email,
		Phone:    cDomain.Phone,
		IsActive: cDomain.IsActive,
	}

	return c
}

func ToResponseCustomers(csDomain domain.Customers) Customers {
	cs := make(Customers, len(csDomain))
	for idx, c := range csDomain {
		cs[idx] = ToResponseCustomer(*c)
	}

	return cs
}

func ToDomainCustomer(c Customer) domain.Customer {
	return domain.Customer{
		ID:       domain.ID(c.ID),
		Created:  c.Created,
		Updated:  c.Updated,
		FullName: c.FullName,
		Email:    c.Email,
		Phone:    c.Phone,
		IsActive: c.IsActive,
	}
}

func FromCreateRequest(r CreateRequest) Customer {
	return Customer{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		IsActive: true,
	}
}

func FromUpdateRequest(r UpdateRequest) Customer {
	return Customer{
		FullName: r.FullName,
		Phone:    r.Phone,
	}
}
