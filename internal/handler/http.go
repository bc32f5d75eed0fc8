package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SIXMAR729/product-cli-project/internal/entities"
	"github.com/SIXMAR729/product-cli-project/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ProductService interface {
	Add(ctx context.Context, name string, price float64, description string) (entities.Product, error)
	Edit(ctx context.Context, productID string, update entities.ProductUpdate) (entities.Product, error)
	Delete(ctx context.Context, productID string) error
	Get(ctx context.Context, productID string) (entities.Product, error)
	List(ctx context.Context) ([]entities.Product, error)
	Count(ctx context.Context) (int64, error)
}

type OrderService interface {
	Create(ctx context.Context, customerID string, items []entities.LineItem) (entities.Order, error)
	Get(ctx context.Context, orderID string) (entities.Order, error)
	Count(ctx context.Context) (int64, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	products ProductService
	orders   OrderService
}

func NewHTTPHandler(logger *slog.Logger, products ProductService, orders OrderService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		products: products,
		orders:   orders,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/products", h.AddProduct)
		r.Get("/products", h.ListProducts)
		r.Get("/products/count", h.CountProducts)
		r.Get("/products/{product_id}", h.GetProduct)
		r.Patch("/products/{product_id}", h.EditProduct)
		r.Delete("/products/{product_id}", h.DeleteProduct)

		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/count", h.CountOrders)
		r.Get("/orders/{order_id}", h.GetOrder)
	})
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		observeCall("Product.Add", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		observeCall("Product.Add", http.StatusBadRequest)
		return
	}

	product, err := h.products.Add(ctx, req.Name, req.Price, req.Description)
	if err != nil {
		h.writeServiceError(ctx, w, "Product.Add", err)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusCreated)
	observeCall("Product.Add", http.StatusCreated)
}

func (h *HTTPHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "product_id")

	var req EditProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		observeCall("Product.Edit", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		observeCall("Product.Edit", http.StatusBadRequest)
		return
	}

	product, err := h.products.Edit(ctx, productID, EditRequestToUpdate(req))
	if err != nil {
		h.writeServiceError(ctx, w, "Product.Edit", err)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
	observeCall("Product.Edit", http.StatusOK)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "product_id")

	if err := h.products.Delete(ctx, productID); err != nil {
		h.writeServiceError(ctx, w, "Product.Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	observeCall("Product.Delete", http.StatusNoContent)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "product_id")

	product, err := h.products.Get(ctx, productID)
	if err != nil {
		h.writeServiceError(ctx, w, "Product.Get", err)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
	observeCall("Product.Get", http.StatusOK)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.products.List(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "Product.List", err)
		return
	}

	result := make([]Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductEntityToJSON(p))
	}

	utils.WriteJSON(w, result, http.StatusOK)
	observeCall("Product.List", http.StatusOK)
}

func (h *HTTPHandler) CountProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.products.Count(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "Product.Count", err)
		return
	}

	utils.WriteJSON(w, CountResponse{Count: count}, http.StatusOK)
	observeCall("Product.Count", http.StatusOK)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		observeCall("Order.Create", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		observeCall("Order.Create", http.StatusBadRequest)
		return
	}

	order, err := h.orders.Create(ctx, req.CustomerID, LineItemInputsToEntities(req.Items))
	if err != nil {
		h.writeServiceError(ctx, w, "Order.Create", err)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
	observeCall("Order.Create", http.StatusCreated)
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orders.Get(ctx, orderID)
	if err != nil {
		h.writeServiceError(ctx, w, "Order.Get", err)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
	observeCall("Order.Get", http.StatusOK)
}

func (h *HTTPHandler) CountOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.orders.Count(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "Order.Count", err)
		return
	}

	utils.WriteJSON(w, CountResponse{Count: count}, http.StatusOK)
	observeCall("Order.Count", http.StatusOK)
}

// writeServiceError maps the service error taxonomy onto transport status
// codes. Anything outside the taxonomy is a storage or programming fault:
// logged in full, surfaced as a generic 500.
func (h *HTTPHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, method string, err error) {
	var status int
	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, entities.ErrProductNotFound), errors.Is(err, entities.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entities.ErrAlreadyExists):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "rpc failed", slog.String("method", method), slog.Any("error", err))
		utils.WriteError(w, "internal server error", status)
	} else {
		utils.WriteError(w, err.Error(), status)
	}
	observeCall(method, status)
}
