package customer

// activeOnly is the soft-delete read predicate: inactive rows are invisible to
// every query that includes it.
const activeOnly = `is_active = TRUE`

const columns = `id, created, updated, full_name, email, phone, is_active`

const (
	CreateTable = `
		CREATE TABLE IF NOT EXISTS customers (
			id         BIGSERIAL    PRIMARY KEY,
			created    BIGINT       NOT NULL,
			updated    BIGINT       NOT NULL,
			full_name  VARCHAR(50)  NOT NULL,
			email      VARCHAR(100) NOT NULL,
			phone      VARCHAR(15),
			is_active  BOOLEAN      NOT NULL DEFAULT TRUE,
			CONSTRAINT customers_email_key UNIQUE (email)
		)
	`
	SelectCustomerByID = `
		SELECT ` + columns + `
		FROM customers
		WHERE id = $1
	`
	SelectActiveCustomerByID = `
		SELECT ` + columns + `
		FROM customers
		WHERE id = $1 AND ` + activeOnly
	SelectActiveCustomers = `
		SELECT ` + columns + `
		FROM customers
		WHERE ` + activeOnly + `
		ORDER BY id
	`
	SelectCustomerByEmail = `
		SELECT ` + columns + `
		FROM customers
		WHERE email = $1
	`
	InsertCustomer = `
		INSERT INTO customers (created, updated, full_name, email, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + columns
	UpdateCustomerByID = `
		UPDATE customers
		SET updated = $1,
		    full_name = $2,
		    email = $3,
		    phone = $4,
		    is_active = $5
		WHERE id = $6
		RETURNING ` + columns
)
