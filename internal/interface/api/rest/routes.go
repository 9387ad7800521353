package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	RouteCustomers = RouteApiV1 + "/customers"
	RouteCustomer  = RouteCustomers + "/:id"

	// internal lookups, not part of the public customer surface
	RouteInternal          = RouteApiV1 + "/internal"
	RouteInternalCustomers = RouteInternal + "/customers"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
