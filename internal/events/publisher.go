// Package events publishes order lifecycle notifications for downstream
// consumers. Publishing is best effort: the order is already committed
// when an event goes out, so delivery failures are logged, not surfaced.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SIXMAR729/product-cli-project/internal/config"
	"github.com/SIXMAR729/product-cli-project/internal/entities"

	"github.com/segmentio/kafka-go"
)

type orderCreated struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	TotalAmount float64   `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
	Items       []item    `json:"items"`
}

type item struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewOrderPublisher(logger *slog.Logger, cfg config.Kafka) *OrderPublisher {
	return &OrderPublisher{
		logger: logger.With(slog.String("publisher", "orders")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *OrderPublisher) OrderCreated(ctx context.Context, order entities.Order) error {
	event := orderCreated{
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		Items:       make([]item, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		event.Items = append(event.Items, item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order created: %w", err)
	}

	p.logger.Debug("order created event published", slog.String("order_id", order.OrderID))
	return nil
}

func (p *OrderPublisher) Close() error {
	return p.writer.Close()
}
