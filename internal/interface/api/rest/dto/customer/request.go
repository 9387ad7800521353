package customer

type (
	// CreateRequest ignores id, created, updated and isActive when a client sends them.
	CreateRequest struct {
		FullName string  `json:"fullName" validate:"required,min=2,max=50"`
		Email    string  `json:"email" validate:"required,email,max=100"`
		Phone    *string `json:"phone" validate:"omitempty,customer_phone"`
	}
	// UpdateRequest only carries the mutable fields; email is never updatable.
	UpdateRequest struct {
		FullName string  `json:"fullName" validate:"required,min=2,max=50"`
		Phone    *string `json:"phone" validate:"omitempty,customer_phone"`
	}
)
