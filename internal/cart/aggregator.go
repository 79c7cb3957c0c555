// Package cart holds the in-memory cart state shared by the storefront views.
//
// The Aggregator is single-writer: every operation runs synchronously on the
// caller's goroutine and there is no locking.
package cart

import (
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

var _ port.Cart = (*Aggregator)(nil)

type Aggregator struct {
	id       uuid.UUID
	currency currency.Unit
	log      *zap.Logger

	lines []domain.CartLine

	// derived from lines by recompute, never set elsewhere
	itemCount int
	total     decimal.Decimal

	subscribers []*subscriber
}

type subscriber struct {
	fn func(domain.Cart)
}

type Option func(*Aggregator)

func WithLogger(log *zap.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// New returns an empty cart whose total is expressed in unit.
func New(unit currency.Unit, opts ...Option) *Aggregator {
	a := &Aggregator{
		id:       uuid.New(),
		currency: unit,
		log:      zap.NewNop(),
		total:    decimal.Zero,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.log = a.log.With(zap.Stringer("cart_id", a.id))

	return a
}

func (a *Aggregator) ID() uuid.UUID {
	return a.id
}

// AddToCart increments the quantity of the product's line, appending a new
// line with quantity 1 if the product is not in the cart yet.
//
// Prices are summed as amounts and reported in the cart currency. Callers must
// only add products priced in that currency; the catalog repository enforces
// it on load. A product in another currency is still added and logged as a warning.
func (a *Aggregator) AddToCart(product domain.Product) {
	if product.Price.Currency != a.currency {
		a.log.Warn("product priced in foreign currency",
			zap.String("product_id", product.ID),
			zap.Stringer("product_currency", product.Price.Currency),
			zap.Stringer("cart_currency", a.currency))
	}

	if i := a.indexOf(product.ID); i >= 0 {
		a.lines[i].Quantity++
		a.log.Debug("incremented line",
			zap.String("product_id", product.ID),
			zap.Int("quantity", a.lines[i].Quantity))
	} else {
		a.lines = append(a.lines, domain.CartLine{Product: product, Quantity: 1})
		a.log.Debug("added line", zap.String("product_id", product.ID))
	}

	a.changed()
}

// RemoveFromCart deletes the line for productID. Unknown ids are ignored.
func (a *Aggregator) RemoveFromCart(productID string) {
	i := a.indexOf(productID)
	if i < 0 {
		return
	}

	a.lines = slices.Delete(a.lines, i, i+1)
	a.log.Debug("removed line", zap.String("product_id", productID))

	a.changed()
}

// UpdateQuantity sets the line quantity to exactly newQuantity.
// A quantity below 1 removes the line. Unknown ids are ignored.
func (a *Aggregator) UpdateQuantity(productID string, newQuantity int) {
	if newQuantity < 1 {
		a.RemoveFromCart(productID)
		return
	}

	i := a.indexOf(productID)
	if i < 0 {
		return
	}

	a.lines[i].Quantity = newQuantity
	a.log.Debug("updated quantity",
		zap.String("product_id", productID),
		zap.Int("quantity", newQuantity))

	a.changed()
}

func (a *Aggregator) ClearCart() {
	a.lines = nil
	a.log.Debug("cleared cart")

	a.changed()
}

func (a *Aggregator) ItemCount() int {
	return a.itemCount
}

func (a *Aggregator) Total() domain.Money {
	return domain.Money{Amount: a.total, Currency: a.currency}
}

// Lines returns a copy of the cart lines in insertion order.
func (a *Aggregator) Lines() []domain.CartLine {
	return slices.Clone(a.lines)
}

func (a *Aggregator) Snapshot() domain.Cart {
	return domain.Cart{
		CartID:    a.id,
		Lines:     a.Lines(),
		ItemCount: a.itemCount,
		Total:     a.Total(),
	}
}

// Subscribe registers fn to receive a snapshot after every change of the cart.
// Subscribers are called in registration order.
func (a *Aggregator) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s := &subscriber{fn: fn}
	a.subscribers = append(a.subscribers, s)

	return func() {
		a.subscribers = slices.DeleteFunc(a.subscribers, func(other *subscriber) bool {
			return other == s
		})
	}
}

func (a *Aggregator) indexOf(productID string) int {
	return slices.IndexFunc(a.lines, func(l domain.CartLine) bool {
		return l.Product.ID == productID
	})
}

func (a *Aggregator) changed() {
	a.recompute()

	if len(a.subscribers) == 0 {
		return
	}

	snapshot := a.Snapshot()
	for _, s := range slices.Clone(a.subscribers) {
		s.fn(snapshot)
	}
}

func (a *Aggregator) recompute() {
	count := 0
	total := decimal.Zero

	for _, l := range a.lines {
		count += l.Quantity
		total = total.Add(l.Subtotal().Amount)
	}

	a.itemCount = count
	a.total = total
}
