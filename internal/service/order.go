package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SIXMAR729/product-cli-project/internal/entities"
	"github.com/SIXMAR729/product-cli-project/pkg/ident"
	"github.com/SIXMAR729/product-cli-project/pkg/trm"
)

const orderIDPrefix = "order"

type OrderRepo interface {
	InsertOrder(ctx context.Context, o entities.Order) error
	GetOrder(ctx context.Context, orderID string) (entities.Order, error)
	CountOrders(ctx context.Context) (int64, error)
}

// ProductGetter is the slice of the product storage the order service
// needs for line item resolution.
type ProductGetter interface {
	GetProduct(ctx context.Context, productID string) (entities.Product, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type OrderEvents interface {
	OrderCreated(ctx context.Context, order entities.Order) error
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	products  ProductGetter
	cache     Cache
	events    OrderEvents
}

// NewOrderService wires the order service. events may be nil when no
// broker is configured.
func NewOrderService(
	logger *slog.Logger,
	txManager trm.Manager,
	repo OrderRepo,
	products ProductGetter,
	cache Cache,
	events OrderEvents,
) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		products:  products,
		cache:     cache,
		events:    events,
	}
}

// Create validates every line item before persisting anything: a single
// unknown product aborts the whole order. Each item snapshots the
// product's price at creation time.
func (s *orderService) Create(ctx context.Context, customerID string, items []entities.LineItem) (entities.Order, error) {
	if customerID == "" {
		return entities.Order{}, fmt.Errorf("%w: customer id is required", entities.ErrInvalidArgument)
	}
	if len(items) == 0 {
		return entities.Order{}, fmt.Errorf("%w: order must contain at least one line item", entities.ErrInvalidArgument)
	}
	for i, it := range items {
		if it.ProductID == "" {
			return entities.Order{}, fmt.Errorf("%w: line item %d has no product id", entities.ErrInvalidArgument, i)
		}
		if it.Quantity <= 0 {
			return entities.Order{}, fmt.Errorf("%w: line item %d quantity must be positive", entities.ErrInvalidArgument, i)
		}
	}

	order := entities.Order{
		OrderID:    ident.New(orderIDPrefix),
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		resolved := make([]entities.LineItem, 0, len(items))
		var total float64
		for _, it := range items {
			product, err := s.products.GetProduct(ctx, it.ProductID)
			if err != nil {
				return err
			}
			resolved = append(resolved, entities.LineItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     product.Price,
			})
			total += float64(it.Quantity) * product.Price
		}

		order.Items = resolved
		order.TotalAmount = total
		return s.repo.InsertOrder(ctx, order)
	})
	if err != nil {
		return entities.Order{}, err
	}

	// Orders are immutable once committed, so caching is always safe.
	s.cacheOrder(order)

	if s.events != nil {
		if err := s.events.OrderCreated(ctx, order); err != nil {
			s.logger.Error("failed to publish order created", slog.Any("error", err), slog.String("order_id", order.OrderID))
		}
	}

	s.logger.Debug("order created", slog.String("order_id", order.OrderID), slog.Int("items", len(order.Items)))
	return order, nil
}

func (s *orderService) Get(ctx context.Context, orderID string) (entities.Order, error) {
	if orderID == "" {
		return entities.Order{}, fmt.Errorf("%w: order id is required", entities.ErrInvalidArgument)
	}

	if data, ok := s.cache.Get(orderID); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err == nil {
			return order, nil
		}
		// Drop the undecodable entry so it cannot shadow storage again.
		s.logger.Error("failed to unmarshal cached order", slog.String("order_id", orderID))
		s.cache.Delete(orderID)
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	s.cacheOrder(order)
	return order, nil
}

func (s *orderService) Count(ctx context.Context) (int64, error) {
	return s.repo.CountOrders(ctx)
}

func (s *orderService) cacheOrder(order entities.Order) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order for cache", slog.Any("error", err))
		return
	}
	s.cache.Set(order.OrderID, data)
}
