package mq

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"customer-manager-api/config"
	"customer-manager-api/internal/interface/api/rest/dto/customer"
)

const (
	bufferSize     = 128
	publishTimeout = 5 * time.Second
	drainTimeout   = 2 * time.Second
)

// RoutingKeys are the event actions; each one is the HTTP method of the
// mutation that produced the event.
var RoutingKeys = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

type (
	InputCh = chan Event

	// publisher is the part of *amqp091.Channel the worker needs.
	publisher interface {
		PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
		Close() error
	}

	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		pub   publisher
		in    InputCh
	}
	Event struct {
		Id         uuid.UUID         `json:"event_id"`
		TS         time.Time         `json:"time_stamp"`
		Method     string            `json:"event_action"`
		CustomerID int64             `json:"customer_id"`
		Payload    customer.Customer `json:"customer_payload"`
	}
)

func NewEvent(method string, c customer.Customer) Event {
	return Event{
		Id:         uuid.New(),
		TS:         time.Now(),
		Method:     method,
		CustomerID: c.ID,
		Payload:    c,
	}
}

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "customermanagerapi",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}
	r.pub = r.pubCh

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	if err := r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, rk := range RoutingKeys {
		if err = r.pubCh.QueueBind(q.Name, rk, r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

// PublisherWorker publishes buffered events until ctx is cancelled, then
// drains the buffer. Cancel ctx only once no more events can be produced.
func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	// cancellation stops the loop, it must not abort an in-flight publish
	pubCtx := context.WithoutCancel(ctx)

	for {
		select {
		case e := <-r.in:
			if err := r.publish(pubCtx, e); err != nil {
				r.log.Error("mq publish error",
					zap.Error(err),
					zap.Stringer("event_id", e.Id),
					zap.Int64("customer_id", e.CustomerID),
				)
			}
		case <-ctx.Done():
			r.drain()
			_ = r.pub.Close()
			return
		}
	}
}

// drain publishes what is still buffered so that mutations accepted before
// shutdown are not silently lost.
func (r *RabbitMQ) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				r.log.Error("mq publish on shutdown error", zap.Error(err), zap.Stringer("event_id", e.Id))
			}
		default:
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	pub, err := toPublishing(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return r.pub.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Method,
		true,
		false,
		pub,
	)
}

func toPublishing(e Event) (amqp091.Publishing, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return amqp091.Publishing{}, err
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Method,
		Body:         b,
	}, nil
}

func (r *RabbitMQ) GetInputChan() chan Event     { return r.in }
func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
