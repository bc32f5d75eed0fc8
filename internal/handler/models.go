package handler

import (
	"time"

	"github.com/SIXMAR729/product-cli-project/internal/entities"
)

// Product is the wire representation of a product.
type Product struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AddProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// EditProductRequest carries a sparse field set: absent fields stay
// untouched, so "clear the description" and "leave it alone" are distinct.
type EditProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

type CreateOrderRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	Items      []LineItemInput `json:"line_items" validate:"required,min=1,dive"`
}

type LineItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type LineItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	OrderID     string     `json:"order_id"`
	CustomerID  string     `json:"customer_id"`
	TotalAmount float64    `json:"total_amount"`
	CreatedAt   time.Time  `json:"created_at"`
	Items       []LineItem `json:"line_items"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

func ProductEntityToJSON(p entities.Product) Product {
	return Product{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func EditRequestToUpdate(req EditProductRequest) entities.ProductUpdate {
	return entities.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
}

func LineItemInputsToEntities(items []LineItemInput) []entities.LineItem {
	result := make([]entities.LineItem, 0, len(items))
	for _, it := range items {
		result = append(result, entities.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return result
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	return Order{
		OrderID:     o.OrderID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Items:       items,
	}
}
