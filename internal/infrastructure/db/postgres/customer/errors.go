package customer

import "errors"

var ErrEmailAlreadyExists = errors.New("customer with this email already exists")
