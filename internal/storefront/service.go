// Package storefront implements what the product list, product detail and
// cart views do on top of the product repository and the shared cart.
package storefront

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// Confirmer asks the user to approve a destructive cart action.
type Confirmer interface {
	Confirm(title, message string) bool
}

type ConfirmFunc func(title, message string) bool

func (f ConfirmFunc) Confirm(title, message string) bool {
	return f(title, message)
}

type Service struct {
	products port.ProductRepository
	cart     port.Cart
	log      *zap.Logger
}

func NewService(products port.ProductRepository, cart port.Cart, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		products: products,
		cart:     cart,
		log:      log,
	}
}

func (s *Service) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.products.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("products.SearchProducts: %w", err)
	}

	return products, nil
}

func (s *Service) ProductDetail(ctx context.Context, productID string) (domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	return product, nil
}

// AddToCart adds one unit of the product. Out of stock products are refused
// with domain.ErrOutOfStock and never reach the cart.
func (s *Service) AddToCart(ctx context.Context, productID string) (domain.Product, error) {
	product, err := s.ProductDetail(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if !product.InStock {
		s.log.Info("refused out of stock product", zap.String("product_id", productID))
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrOutOfStock)
	}

	s.cart.AddToCart(product)
	s.log.Info("added to cart",
		zap.String("product_id", productID),
		zap.Int("item_count", s.cart.ItemCount()))

	return product, nil
}

// ChangeQuantity sets the quantity of a cart line. Going below 1 asks for
// confirmation and removes the line only if approved. It reports whether the cart changed.
func (s *Service) ChangeQuantity(productID string, newQuantity int, confirm Confirmer) bool {
	line, ok := s.line(productID)
	if !ok {
		return false
	}

	if newQuantity < 1 {
		return s.removeLine(line, confirm)
	}

	if line.Quantity == newQuantity {
		return false
	}

	s.cart.UpdateQuantity(productID, newQuantity)
	s.log.Info("updated quantity",
		zap.String("product_id", productID),
		zap.Int("quantity", newQuantity))

	return true
}

func (s *Service) IncrementQuantity(productID string) bool {
	line, ok := s.line(productID)
	if !ok {
		return false
	}

	return s.ChangeQuantity(productID, line.Quantity+1, nil)
}

func (s *Service) DecrementQuantity(productID string, confirm Confirmer) bool {
	line, ok := s.line(productID)
	if !ok {
		return false
	}

	return s.ChangeQuantity(productID, line.Quantity-1, confirm)
}

func (s *Service) RemoveItem(productID string, confirm Confirmer) bool {
	line, ok := s.line(productID)
	if !ok {
		return false
	}

	return s.removeLine(line, confirm)
}

// ClearCart empties the cart after confirmation. An empty cart is left alone.
func (s *Service) ClearCart(confirm Confirmer) bool {
	if len(s.cart.Lines()) == 0 {
		return false
	}

	if !ask(confirm, "Clear Cart", "Are you sure you want to remove all items from your cart?") {
		return false
	}

	s.cart.ClearCart()
	s.log.Info("cleared cart")

	return true
}

func (s *Service) Summary() Summary {
	return newSummary(s.cart.Snapshot())
}

func (s *Service) Cart() domain.Cart {
	return s.cart.Snapshot()
}

func (s *Service) removeLine(line domain.CartLine, confirm Confirmer) bool {
	msg := fmt.Sprintf("Are you sure you want to remove %s from your cart?", line.Product.Name)
	if !ask(confirm, "Remove Item", msg) {
		return false
	}

	s.cart.RemoveFromCart(line.Product.ID)
	s.log.Info("removed from cart", zap.String("product_id", line.Product.ID))

	return true
}

func (s *Service) line(productID string) (domain.CartLine, bool) {
	for _, l := range s.cart.Lines() {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return domain.CartLine{}, false
}

// nil confirmer denies
func ask(confirm Confirmer, title, message string) bool {
	if confirm == nil {
		return false
	}
	return confirm.Confirm(title, message)
}
