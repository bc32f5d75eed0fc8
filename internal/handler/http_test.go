package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SIXMAR729/product-cli-project/internal/entities"
	"github.com/SIXMAR729/product-cli-project/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) Add(ctx context.Context, name string, price float64, description string) (entities.Product, error) {
	args := m.Called(ctx, name, price, description)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductService) Edit(ctx context.Context, productID string, update entities.ProductUpdate) (entities.Product, error) {
	args := m.Called(ctx, productID, update)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductService) Delete(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *mockProductService) Get(ctx context.Context, productID string) (entities.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductService) List(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Product), args.Error(1)
}

func (m *mockProductService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) Create(ctx context.Context, customerID string, items []entities.LineItem) (entities.Order, error) {
	args := m.Called(ctx, customerID, items)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderService) Get(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func setup(t *testing.T) (chi.Router, *mockProductService, *mockOrderService) {
	t.Helper()
	products := new(mockProductService)
	products.Test(t)
	orders := new(mockOrderService)
	orders.Test(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewHTTPHandler(logger, products, orders)

	r := chi.NewRouter()
	h.Init(r)
	return r, products, orders
}

func doRequest(t *testing.T, r chi.Router, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	res := rr.Result()
	t.Cleanup(func() { res.Body.Close() })
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}

func TestHTTPHandler_AddProduct(t *testing.T) {
	validProduct := entities.Product{ProductID: "prod-abc12345", Name: "keyboard", Price: 49.99}

	testCases := []struct {
		name         string
		body         string
		mockBehavior func(products *mockProductService)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "created",
			body: `{"name":"keyboard","price":49.99}`,
			mockBehavior: func(products *mockProductService) {
				products.On("Add", mock.Anything, "keyboard", 49.99, "").
					Return(validProduct, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"product_id":"prod-abc12345"`,
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"invalid request body"`,
		},
		{
			name:       "negative price rejected by validation",
			body:       `{"name":"keyboard","price":-1}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"invalid request"`,
		},
		{
			name:       "missing name rejected by validation",
			body:       `{"price":5}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"invalid request"`,
		},
		{
			name: "service invalid argument",
			body: `{"name":"keyboard","price":1}`,
			mockBehavior: func(products *mockProductService) {
				products.On("Add", mock.Anything, "keyboard", 1.0, "").
					Return(entities.Product{}, entities.ErrInvalidArgument).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate id",
			body: `{"name":"keyboard","price":1}`,
			mockBehavior: func(products *mockProductService) {
				products.On("Add", mock.Anything, "keyboard", 1.0, "").
					Return(entities.Product{}, entities.ErrAlreadyExists).Once()
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "storage failure hides details",
			body: `{"name":"keyboard","price":1}`,
			mockBehavior: func(products *mockProductService) {
				products.On("Add", mock.Anything, "keyboard", 1.0, "").
					Return(entities.Product{}, errors.New("pq: connection refused")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"internal server error"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, products, _ := setup(t)
			if tc.mockBehavior != nil {
				tc.mockBehavior(products)
			}

			res, body := doRequest(t, r, http.MethodPost, "/v1/products", tc.body)

			assert.Equal(t, tc.wantStatus, res.StatusCode)
			if tc.wantBody != "" {
				assert.Contains(t, body, tc.wantBody)
			}
			products.AssertExpectations(t)
		})
	}
}

func TestHTTPHandler_EditProduct(t *testing.T) {
	updated := entities.Product{ProductID: "prod-abc12345", Name: "keyboard", Price: 59.99, Description: "mk2"}

	testCases := []struct {
		name         string
		productID    string
		body         string
		mockBehavior func(products *mockProductService)
		wantStatus   int
		wantBody     string
	}{
		{
			name:      "sparse update passes only supplied fields",
			productID: "prod-abc12345",
			body:      `{"price":59.99}`,
			mockBehavior: func(products *mockProductService) {
				products.On("Edit", mock.Anything, "prod-abc12345",
					mock.MatchedBy(func(u entities.ProductUpdate) bool {
						return u.Name == nil && u.Description == nil && u.Price != nil && *u.Price == 59.99
					})).Return(updated, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"price":59.99`,
		},
		{
			name:      "not found",
			productID: "prod-missing1",
			body:      `{"price":1}`,
			mockBehavior: func(products *mockProductService) {
				products.On("Edit", mock.Anything, "prod-missing1", mock.Anything).
					Return(entities.Product{}, entities.ErrProductNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `product not found`,
		},
		{
			name:       "negative price rejected by validation",
			productID:  "prod-abc12345",
			body:       `{"price":-3}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, products, _ := setup(t)
			if tc.mockBehavior != nil {
				tc.mockBehavior(products)
			}

			res, body := doRequest(t, r, http.MethodPatch, "/v1/products/"+tc.productID, tc.body)

			assert.Equal(t, tc.wantStatus, res.StatusCode)
			if tc.wantBody != "" {
				assert.Contains(t, body, tc.wantBody)
			}
			products.AssertExpectations(t)
		})
	}
}

func TestHTTPHandler_DeleteProduct(t *testing.T) {
	t.Run("no content on success", func(t *testing.T) {
		r, products, _ := setup(t)
		products.On("Delete", mock.Anything, "prod-abc12345").Return(nil).Once()

		res, _ := doRequest(t, r, http.MethodDelete, "/v1/products/prod-abc12345", "")
		assert.Equal(t, http.StatusNoContent, res.StatusCode)
		products.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		r, products, _ := setup(t)
		products.On("Delete", mock.Anything, "prod-missing1").
			Return(entities.ErrProductNotFound).Once()

		res, _ := doRequest(t, r, http.MethodDelete, "/v1/products/prod-missing1", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestHTTPHandler_ListAndCountProducts(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		r, products, _ := setup(t)
		products.On("List", mock.Anything).Return([]entities.Product{
			{ProductID: "prod-a1", Name: "first"},
			{ProductID: "prod-b2", Name: "second"},
		}, nil).Once()

		res, body := doRequest(t, r, http.MethodGet, "/v1/products", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)

		var list []map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &list))
		require.Len(t, list, 2)
		assert.Equal(t, "prod-a1", list[0]["product_id"])
		assert.Equal(t, "prod-b2", list[1]["product_id"])
	})

	t.Run("empty list is a JSON array", func(t *testing.T) {
		r, products, _ := setup(t)
		products.On("List", mock.Anything).Return([]entities.Product{}, nil).Once()

		res, body := doRequest(t, r, http.MethodGet, "/v1/products", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "[]", strings.TrimSpace(body))
	})

	t.Run("count", func(t *testing.T) {
		r, products, _ := setup(t)
		products.On("Count", mock.Anything).Return(int64(5), nil).Once()

		res, body := doRequest(t, r, http.MethodGet, "/v1/products/count", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, body, `"count":5`)
	})
}

func TestHTTPHandler_CreateOrder(t *testing.T) {
	validOrder := entities.Order{
		OrderID:     "order-abc12345",
		CustomerID:  "customer-1",
		TotalAmount: 80,
		Items: []entities.LineItem{
			{ProductID: "prod-aaaa1111", Quantity: 2, Price: 10},
			{ProductID: "prod-bbbb2222", Quantity: 3, Price: 20},
		},
	}

	testCases := []struct {
		name         string
		body         string
		mockBehavior func(orders *mockOrderService)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "created with items in request order",
			body: `{"customer_id":"customer-1","line_items":[{"product_id":"prod-aaaa1111","quantity":2},{"product_id":"prod-bbbb2222","quantity":3}]}`,
			mockBehavior: func(orders *mockOrderService) {
				orders.On("Create", mock.Anything, "customer-1", []entities.LineItem{
					{ProductID: "prod-aaaa1111", Quantity: 2},
					{ProductID: "prod-bbbb2222", Quantity: 3},
				}).Return(validOrder, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"order_id":"order-abc12345"`,
		},
		{
			name:       "empty line items rejected by validation",
			body:       `{"customer_id":"customer-1","line_items":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero quantity rejected by validation",
			body:       `{"customer_id":"customer-1","line_items":[{"product_id":"prod-a1","quantity":0}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown product reported as not found",
			body: `{"customer_id":"customer-1","line_items":[{"product_id":"prod-missing1","quantity":1}]}`,
			mockBehavior: func(orders *mockOrderService) {
				orders.On("Create", mock.Anything, "customer-1", mock.Anything).
					Return(entities.Order{},
						errors.Join(entities.ErrProductNotFound, errors.New("prod-missing1"))).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `prod-missing1`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, _, orders := setup(t)
			if tc.mockBehavior != nil {
				tc.mockBehavior(orders)
			}

			res, body := doRequest(t, r, http.MethodPost, "/v1/orders", tc.body)

			assert.Equal(t, tc.wantStatus, res.StatusCode)
			if tc.wantBody != "" {
				assert.Contains(t, body, tc.wantBody)
			}
			orders.AssertExpectations(t)
		})
	}
}

func TestHTTPHandler_GetOrder(t *testing.T) {
	validOrder := entities.Order{OrderID: "order-abc12345", CustomerID: "customer-1"}

	t.Run("found", func(t *testing.T) {
		r, _, orders := setup(t)
		orders.On("Get", mock.Anything, "order-abc12345").Return(validOrder, nil).Once()

		res, body := doRequest(t, r, http.MethodGet, "/v1/orders/order-abc12345", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, body, `"order_id":"order-abc12345"`)
	})

	t.Run("not found", func(t *testing.T) {
		r, _, orders := setup(t)
		orders.On("Get", mock.Anything, "order-missing1").
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()

		res, _ := doRequest(t, r, http.MethodGet, "/v1/orders/order-missing1", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestHTTPHandler_CountOrders(t *testing.T) {
	r, _, orders := setup(t)
	orders.On("Count", mock.Anything).Return(int64(3), nil).Once()

	res, body := doRequest(t, r, http.MethodGet, "/v1/orders/count", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"count":3`)
}
