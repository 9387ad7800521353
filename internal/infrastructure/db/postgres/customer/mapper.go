package customer

import (
	domain "customer-manager-api/internal/domain/customer"
)

func fromDBModel(model *Customer) *domain.Customer {
	var c = &domain.Customer{
		ID: domain.ID(model.ID),

		Created: model.Created,
		Updated: model.Updated,

		FullName: model.FullName,
		Email:    model.Email,
		Phone:    model.Phone,
		IsActive: model.IsActive,
	}

	return c
}

func fromDBModels(models *Customers) domain.Customers {
	cs := make(domain.Customers, len(*models))
	for idx, c := range *models {
		cs[idx] = fromDBModel(c)
	}

	return cs
}
