package repo

import (
	"time"

	"github.com/SIXMAR729/product-cli-project/internal/entities"
)

type Product struct {
	ProductID   string    `db:"product_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Order struct {
	OrderID     string    `db:"order_id"`
	CustomerID  string    `db:"customer_id"`
	TotalAmount float64   `db:"total_amount"`
	CreatedAt   time.Time `db:"created_at"`
}

type OrderItem struct {
	OrderID   string  `db:"order_id"`
	Position  int     `db:"position"`
	ProductID string  `db:"product_id"`
	Quantity  int     `db:"quantity"`
	Price     float64 `db:"price"`
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func OrderToEntity(o Order, items []OrderItem) entities.Order {
	order := entities.Order{
		OrderID:     o.OrderID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}

	if len(items) > 0 {
		order.Items = make([]entities.LineItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, entities.LineItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}
	}

	return order
}
