package port

import (
	"github.com/nikolayk812/storefront/internal/domain"
)

// Cart is the contract the storefront views use against the cart state.
type Cart interface {
	AddToCart(product domain.Product)
	RemoveFromCart(productID string)
	UpdateQuantity(productID string, newQuantity int)
	ClearCart()

	ItemCount() int
	Total() domain.Money
	Lines() []domain.CartLine
	Snapshot() domain.Cart

	Subscribe(fn func(domain.Cart)) (unsubscribe func())
}
