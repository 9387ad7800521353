package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer-manager-api/internal/application/ports"
	"customer-manager-api/internal/application/services"
	domain "customer-manager-api/internal/domain/customer"
	customerDB "customer-manager-api/internal/infrastructure/db/postgres/customer"
	"customer-manager-api/internal/interface/api/rest/dto/customer"
	"customer-manager-api/internal/interface/api/rest/validator"
)

type CustomerController struct {
	customerService ports.CustomerService
	logger          *zap.Logger
}

func NewCustomerController(
	r *gin.Engine,
	customerService ports.CustomerService,
	logger *zap.Logger,
) *CustomerController {
	cc := &CustomerController{
		customerService: customerService,
		logger:          logger,
	}

	r.POST(RouteCustomers, cc.CreateCustomerHandler)
	r.GET(RouteCustomers, cc.GetCustomersHandler)
	r.GET(RouteCustomer, cc.GetCustomerHandler)
	r.PUT(RouteCustomer, cc.UpdateCustomerHandler)
	r.DELETE(RouteCustomer, cc.DeleteCustomerHandler)

	r.GET(RouteInternalCustomers, cc.FindByEmailHandler)

	return cc
}

func (cc *CustomerController) CreateCustomerHandler(c *gin.Context) {
	var req customer.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	validator.NormalizeCreate(&req)
	if errs := validator.ValidateCreate(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	out, err := cc.customerService.CreateCustomer(c.Request.Context(), customer.FromCreateRequest(req))
	if err != nil {
		if errors.Is(err, customerDB.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to create a customer"},
		)
		cc.logger.Error("CreateCustomer() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, out)
}

func (cc *CustomerController) GetCustomersHandler(c *gin.Context) {
	customers, err := cc.customerService.FindActiveCustomers(c.Request.Context())
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get customers"},
		)
		cc.logger.Error("FindActiveCustomers() error", zap.Error(err))
		return
	}
	if customers == nil {
		customers = customer.Customers{}
	}

	c.JSON(http.StatusOK, customers)
}

func (cc *CustomerController) GetCustomerHandler(c *gin.Context) {
	id, ok := cc.pathID(c)
	if !ok {
		return
	}

	out, err := cc.customerService.FindActiveCustomerByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get a customer"},
		)
		cc.logger.Error("FindActiveCustomerByID() error", zap.Error(err), zap.Int64("customer_id", int64(id)))
		return
	}

	if out == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": services.ErrCustomerNotFound.Error()},
		)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (cc *CustomerController) UpdateCustomerHandler(c *gin.Context) {
	id, ok := cc.pathID(c)
	if !ok {
		return
	}

	var req customer.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	validator.NormalizeUpdate(&req)
	if errs := validator.ValidateUpdate(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	out, err := cc.customerService.UpdateCustomer(c.Request.Context(), id, customer.FromUpdateRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, customerDB.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to update a customer"},
			)
			cc.logger.Error("UpdateCustomer() error", zap.Error(err), zap.Int64("customer_id", int64(id)))
		}
		return
	}

	c.JSON(http.StatusOK, out)
}

func (cc *CustomerController) DeleteCustomerHandler(c *gin.Context) {
	id, ok := cc.pathID(c)
	if !ok {
		return
	}

	err := cc.customerService.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to delete customer"},
		)
		cc.logger.Error("DeleteCustomer() error", zap.Error(err), zap.Int64("customer_id", int64(id)))
		return
	}

	c.Status(http.StatusNoContent)
}

// FindByEmailHandler is an internal lookup; it also returns inactive customers.
func (cc *CustomerController) FindByEmailHandler(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "email query parameter is required"},
		)
		return
	}

	out, err := cc.customerService.FindByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get a customer"},
		)
		cc.logger.Error("FindByEmail() error", zap.Error(err))
		return
	}
	if out == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": services.ErrCustomerNotFound.Error()},
		)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (cc *CustomerController) pathID(c *gin.Context) (domain.ID, bool) {
	id, err := validator.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return 0, false
	}
	return domain.ID(id), true
}
