package customer

type (
	ID       int64
	Customer struct {
		ID ID

		// unix milliseconds
		Created int64
		Updated int64

		FullName string
		Email    string
		Phone    *string
		IsActive bool
	}
	Customers []*Customer
)
