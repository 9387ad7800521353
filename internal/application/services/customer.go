package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"customer-manager-api/internal/application/ports"
	domain "customer-manager-api/internal/domain/customer"
	"customer-manager-api/internal/infrastructure/mq"
	"customer-manager-api/internal/interface/api/rest/dto/customer"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerService struct {
	customerRepository domain.Repository
	mq                 ports.RabbitMQ
	mCounter           *prometheus.CounterVec
	logger             *zap.Logger
	now                func() time.Time
}

func NewCustomerService(
	customerRepository domain.Repository,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.CustomerService {
	return &CustomerService{
		customerRepository: customerRepository,
		mq:                 mq,
		mCounter:           mCounter,
		logger:             logger,
		now:                time.Now,
	}
}

func (cs *CustomerService) CreateCustomer(ctx context.Context, in customer.Customer) (*customer.Customer, error) {
	c := customer.ToDomainCustomer(in)

	// identity and timestamps are owned here and by storage, never by the caller
	ts := cs.now().UnixMilli()
	c.ID = 0
	c.Created = ts
	c.Updated = ts
	c.IsActive = true

	saved, err := cs.customerRepository.Save(ctx, c)
	if err != nil {
		return nil, err
	}

	out := customer.ToResponseCustomer(*saved)
	cs.emit(ctx, http.MethodPost, out)
	cs.mCounter.WithLabelValues("customer_created_total").Inc()

	return &out, nil
}

func (cs *CustomerService) FindActiveCustomers(ctx context.Context) (customer.Customers, error) {
	found, err := cs.customerRepository.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	return customer.ToResponseCustomers(found), nil
}

func (cs *CustomerService) FindActiveCustomerByID(ctx context.Context, id domain.ID) (*customer.Customer, error) {
	c, err := cs.customerRepository.FindActiveByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}

	out := customer.ToResponseCustomer(*c)

	return &out, nil
}

// UpdateCustomer overwrites fullName and phone only. Email and the active flag
// in changes are ignored. Inactive customers are still updatable.
func (cs *CustomerService) UpdateCustomer(ctx context.Context, id domain.ID, changes customer.Customer) (*customer.Customer, error) {
	c, err := cs.customerRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}

	c.FullName = changes.FullName
	c.Phone = changes.Phone
	c.Updated = cs.nextUpdated(c.Updated)

	saved, err := cs.customerRepository.Save(ctx, *c)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, ErrCustomerNotFound
	}

	out := customer.ToResponseCustomer(*saved)
	cs.emit(ctx, http.MethodPut, out)
	cs.mCounter.WithLabelValues("customer_updated_total").Inc()

	return &out, nil
}

// DeleteCustomer is a soft delete: the row stays and only isActive flips.
func (cs *CustomerService) DeleteCustomer(ctx context.Context, id domain.ID) error {
	c, err := cs.customerRepository.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCustomerNotFound
	}

	c.IsActive = false
	c.Updated = cs.nextUpdated(c.Updated)

	saved, err := cs.customerRepository.Save(ctx, *c)
	if err != nil {
		return err
	}
	if saved == nil {
		return ErrCustomerNotFound
	}

	cs.emit(ctx, http.MethodDelete, customer.ToResponseCustomer(*saved))
	cs.mCounter.WithLabelValues("customer_deleted_total").Inc()

	return nil
}

// FindByEmail does not filter on the active flag.
func (cs *CustomerService) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	c, err := cs.customerRepository.FindByEmail(ctx, email)
	if err != nil || c == nil {
		return nil, err
	}

	out := customer.ToResponseCustomer(*c)

	return &out, nil
}

// nextUpdated keeps updated strictly increasing even when two mutations land
// in the same millisecond or the clock steps back.
func (cs *CustomerService) nextUpdated(prev int64) int64 {
	ts := cs.now().UnixMilli()
	if ts <= prev {
		return prev + 1
	}
	return ts
}

// emit never blocks the request: the row is already stored, so when the
// publisher buffer is full or the request is gone the event is dropped and counted.
func (cs *CustomerService) emit(ctx context.Context, method string, c customer.Customer) {
	if cs.mq == nil {
		return
	}

	e := mq.NewEvent(method, c)
	select {
	case cs.mq.GetInputChan() <- e:
		return
	case <-ctx.Done():
	default:
	}

	cs.mCounter.WithLabelValues("customer_event_dropped_total").Inc()
	cs.logger.Warn("customer event dropped",
		zap.Stringer("event_id", e.Id),
		zap.String("event_action", e.Method),
		zap.Int64("customer_id", e.CustomerID),
	)
}
