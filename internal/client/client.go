// Package client is a typed client for the inventory RPC surface. The CLI
// and the agent talk to the server exclusively through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SIXMAR729/product-cli-project/internal/handler"
	"github.com/SIXMAR729/product-cli-project/pkg/utils"
)

const defaultTimeout = 10 * time.Second

// APIError is a typed failure returned by the server: the status code
// tells the caller whether the input or the referenced entity was at fault.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rpc failed (%d): %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	retry   utils.RetryConfig
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		retry: utils.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			Multiplier:   2,
		},
	}
}

func (c *Client) AddProduct(ctx context.Context, req handler.AddProductRequest) (handler.Product, error) {
	var product handler.Product
	err := c.do(ctx, http.MethodPost, "/v1/products", req, &product)
	return product, err
}

func (c *Client) EditProduct(ctx context.Context, productID string, req handler.EditProductRequest) (handler.Product, error) {
	var product handler.Product
	err := c.do(ctx, http.MethodPatch, "/v1/products/"+productID, req, &product)
	return product, err
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/products/"+productID, nil, nil)
}

func (c *Client) GetProduct(ctx context.Context, productID string) (handler.Product, error) {
	var product handler.Product
	err := c.do(ctx, http.MethodGet, "/v1/products/"+productID, nil, &product)
	return product, err
}

func (c *Client) ListProducts(ctx context.Context) ([]handler.Product, error) {
	var products []handler.Product
	err := c.do(ctx, http.MethodGet, "/v1/products", nil, &products)
	return products, err
}

func (c *Client) CountProducts(ctx context.Context) (int64, error) {
	var res handler.CountResponse
	err := c.do(ctx, http.MethodGet, "/v1/products/count", nil, &res)
	return res.Count, err
}

func (c *Client) CreateOrder(ctx context.Context, req handler.CreateOrderRequest) (handler.Order, error) {
	var order handler.Order
	err := c.do(ctx, http.MethodPost, "/v1/orders", req, &order)
	return order, err
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (handler.Order, error) {
	var order handler.Order
	err := c.do(ctx, http.MethodGet, "/v1/orders/"+orderID, nil, &order)
	return order, err
}

func (c *Client) CountOrders(ctx context.Context) (int64, error) {
	var res handler.CountResponse
	err := c.do(ctx, http.MethodGet, "/v1/orders/count", nil, &res)
	return res.Count, err
}

// do performs one logical RPC. Connection failures and 5xx responses are
// retried with backoff; 4xx responses are the caller's fault and returned
// as-is on the first attempt.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var permanent error
	fn := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			permanent = err
			return nil
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return decodeAPIError(resp)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			permanent = decodeAPIError(resp)
			return nil
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			permanent = fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	if err := utils.Retry(c.retry, fn); err != nil {
		return err
	}
	return permanent
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body utils.ValidationErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		for field, tag := range body.Fields {
			apiErr.Message += fmt.Sprintf("; %s: %s", field, tag)
		}
	}
	return apiErr
}
