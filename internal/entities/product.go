package entities

import "time"

type Product struct {
	ProductID   string
	Name        string
	Description string
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductUpdate is a sparse field set for partial edits. A nil field means
// "leave unchanged", so an empty description can still be set explicitly.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
}

func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil
}
