package entities

import (
	"bytes"
	"encoding/gob"
	"time"
)

// LineItem is one (product, quantity) position of an order. Price is the
// product's price at creation time, so later product edits do not rewrite
// order history.
type LineItem struct {
	ProductID string
	Quantity  int
	Price     float64
}

// Order is immutable once created.
type Order struct {
	OrderID     string
	CustomerID  string
	TotalAmount float64
	CreatedAt   time.Time
	Items       []LineItem
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(o)
}

func init() {
	gob.Register(Order{})
	gob.Register(LineItem{})
}
