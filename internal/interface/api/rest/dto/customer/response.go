package customer

type (
	// Customer is the transfer shape exposed over HTTP and in domain events.
	Customer struct {
		ID       int64   `json:"id"`
		Created  int64   `json:"created"`
		Updated  int64   `json:"updated"`
		FullName string  `json:"fullName"`
		Email    string  `json:"email"`
		Phone    *string `json:"phone"`
		IsActive bool    `json:"isActive"`
	}
	Customers []Customer
)
