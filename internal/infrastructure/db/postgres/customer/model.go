package customer

type (
	Customer struct {
		ID       int64
		Created  int64
		Updated  int64
		FullName string
		Email    string
		Phone    *string
		IsActive bool
	}
	Customers []*Customer
)
