package ports

import "context"

type RMQConsumer interface {
	Connect(dsn string) error
	Init(routingKeys []string) error
	DeliveryWorker(ctx context.Context)
	Close()
}
