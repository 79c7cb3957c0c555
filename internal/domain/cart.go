package domain

import (
	"github.com/google/uuid"
)

// Cart is a point-in-time copy of the cart state. Lines are in insertion order.
type Cart struct {
	CartID    uuid.UUID
	Lines     []CartLine
	ItemCount int
	Total     Money
}

type CartLine struct {
	Product  Product
	Quantity int
}

func (l CartLine) Subtotal() Money {
	return l.Product.Price.Mul(l.Quantity)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
