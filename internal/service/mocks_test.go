package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/SIXMAR729/product-cli-project/internal/entities"
	"github.com/SIXMAR729/product-cli-project/pkg/trm"

	"github.com/stretchr/testify/mock"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) InsertProduct(ctx context.Context, p entities.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, productID string, update entities.ProductUpdate) error {
	args := m.Called(ctx, productID, update)
	return args.Error(0)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *mockProductRepo) ListProducts(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Product), args.Error(1)
}

func (m *mockProductRepo) CountProducts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) InsertOrder(ctx context.Context, o entities.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepo) GetOrder(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderRepo) CountOrders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) OrderCreated(ctx context.Context, order entities.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// passthroughTxManager runs callbacks without a real transaction;
// transaction semantics are covered by the storage layer.
type passthroughTxManager struct{}

func (passthroughTxManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	panic("not used in tests")
}

func (passthroughTxManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value []byte) {
	c.data[key] = value
}

func (c *fakeCache) Delete(key string) {
	delete(c.data, key)
}

// memoryProductRepo is a mutex-guarded in-memory table. Every operation
// holds the lock for its full duration, mirroring the per-row write
// serialization the storage layer provides under concurrent callers.
type memoryProductRepo struct {
	mu   sync.Mutex
	rows map[string]entities.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{rows: make(map[string]entities.Product)}
}

func (r *memoryProductRepo) InsertProduct(_ context.Context, p entities.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[p.ProductID]; ok {
		return fmt.Errorf("product %s: %w", p.ProductID, entities.ErrAlreadyExists)
	}
	r.rows[p.ProductID] = p
	return nil
}

func (r *memoryProductRepo) GetProduct(_ context.Context, productID string) (entities.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[productID]
	if !ok {
		return entities.Product{}, fmt.Errorf("%w: %s", entities.ErrProductNotFound, productID)
	}
	return row, nil
}

func (r *memoryProductRepo) UpdateProduct(_ context.Context, productID string, update entities.ProductUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[productID]
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrProductNotFound, productID)
	}
	if update.Name != nil {
		row.Name = *update.Name
	}
	if update.Description != nil {
		row.Description = *update.Description
	}
	if update.Price != nil {
		row.Price = *update.Price
	}
	r.rows[productID] = row
	return nil
}

func (r *memoryProductRepo) DeleteProduct(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[productID]; !ok {
		return fmt.Errorf("%w: %s", entities.ErrProductNotFound, productID)
	}
	delete(r.rows, productID)
	return nil
}

func (r *memoryProductRepo) ListProducts(_ context.Context) ([]entities.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]entities.Product, 0, len(r.rows))
	for _, row := range r.rows {
		result = append(result, row)
	}
	return result, nil
}

func (r *memoryProductRepo) CountProducts(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}
