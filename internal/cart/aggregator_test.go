package cart_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/currency"
)

type aggregatorSuite struct {
	suite.Suite

	cart *cart.Aggregator
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(aggregatorSuite))
}

// before each test in the suite
func (suite *aggregatorSuite) SetupTest() {
	suite.cart = cart.New(currency.USD, cart.WithLogger(zaptest.NewLogger(suite.T())))
}

func (suite *aggregatorSuite) TestNewCartIsEmpty() {
	t := suite.T()

	assert.Equal(t, 0, suite.cart.ItemCount())
	assert.True(t, suite.cart.Total().IsZero())
	assert.Equal(t, currency.USD, suite.cart.Total().Currency)
	assert.Empty(t, suite.cart.Lines())
	assert.NotEqual(t, uuid.Nil, suite.cart.ID())
}

func (suite *aggregatorSuite) TestAddToCart() {
	tests := []struct {
		name string
		adds int
	}{
		{name: "add once: new line", adds: 1},
		{name: "add twice: same line", adds: 2},
		{name: "add many times: same line", adds: gofakeit.IntRange(3, 50)},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			c := cart.New(currency.USD)
			product := randomProduct()

			for range tt.adds {
				c.AddToCart(product)
			}

			require.Len(t, c.Lines(), 1)
			assert.Equal(t, tt.adds, c.Lines()[0].Quantity)
			assert.Equal(t, tt.adds, c.ItemCount())
			assertMoney(t, product.Price.Mul(tt.adds).Amount, c.Total())
		})
	}
}

func (suite *aggregatorSuite) TestAddToCartKeepsInsertionOrder() {
	t := suite.T()

	a, b, c := randomProduct(), randomProduct(), randomProduct()
	suite.cart.AddToCart(a)
	suite.cart.AddToCart(b)
	suite.cart.AddToCart(c)
	suite.cart.AddToCart(a)

	want := []domain.CartLine{
		{Product: a, Quantity: 2},
		{Product: b, Quantity: 1},
		{Product: c, Quantity: 1},
	}
	assertLines(t, want, suite.cart.Lines())
	assert.Equal(t, 4, suite.cart.ItemCount())
}

func (suite *aggregatorSuite) TestAddToCartIgnoresStock() {
	t := suite.T()

	product := randomProduct()
	product.InStock = false

	suite.cart.AddToCart(product)

	assert.Equal(t, 1, suite.cart.ItemCount())
}

func (suite *aggregatorSuite) TestAddToCartForeignCurrency() {
	t := suite.T()

	core, logs := observer.New(zapcore.WarnLevel)
	c := cart.New(currency.USD, cart.WithLogger(zap.New(core)))

	usd := productWithPrice("10.00")
	eur := productWithPrice("3.00")
	eur.Price.Currency = currency.EUR

	c.AddToCart(usd)
	assert.Zero(t, logs.Len())

	c.AddToCart(eur)

	entries := logs.FilterMessage("product priced in foreign currency").All()
	require.Len(t, entries, 1)
	assert.Equal(t, eur.ID, entries[0].ContextMap()["product_id"])
	assert.Equal(t, "EUR", entries[0].ContextMap()["product_currency"])
	assert.Equal(t, 2, c.ItemCount())
	assert.Equal(t, currency.USD, c.Total().Currency)
}

func (suite *aggregatorSuite) TestRemoveFromCart() {
	tests := []struct {
		name      string
		productID func(present domain.Product) string
		wantLines int
	}{
		{
			name:      "remove existing line: ok",
			productID: func(present domain.Product) string { return present.ID },
			wantLines: 0,
		},
		{
			name:      "remove unknown product: no-op",
			productID: func(domain.Product) string { return gofakeit.UUID() },
			wantLines: 1,
		},
		{
			name:      "remove empty id: no-op",
			productID: func(domain.Product) string { return "" },
			wantLines: 1,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			c := cart.New(currency.USD)
			product := randomProduct()
			c.AddToCart(product)
			c.AddToCart(product)

			c.RemoveFromCart(tt.productID(product))

			assert.Len(t, c.Lines(), tt.wantLines)
			assertConsistent(t, c)
		})
	}
}

func (suite *aggregatorSuite) TestUpdateQuantity() {
	tests := []struct {
		name         string
		quantity     int
		wantLines    int
		wantQuantity int
	}{
		{name: "set quantity: ok", quantity: 5, wantLines: 1, wantQuantity: 5},
		{name: "set quantity to one: ok", quantity: 1, wantLines: 1, wantQuantity: 1},
		{name: "set same quantity: ok", quantity: 2, wantLines: 1, wantQuantity: 2},
		{name: "zero quantity: removed", quantity: 0, wantLines: 0},
		{name: "negative quantity: removed", quantity: -3, wantLines: 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			c := cart.New(currency.USD)
			product := randomProduct()
			c.AddToCart(product)
			c.AddToCart(product)

			c.UpdateQuantity(product.ID, tt.quantity)

			require.Len(t, c.Lines(), tt.wantLines)
			if tt.wantLines > 0 {
				assert.Equal(t, tt.wantQuantity, c.Lines()[0].Quantity)
			}
			assertConsistent(t, c)
		})
	}
}

func (suite *aggregatorSuite) TestUpdateQuantityUnknownProductIsNoop() {
	t := suite.T()

	product := randomProduct()
	suite.cart.AddToCart(product)
	before := suite.cart.Snapshot()

	suite.cart.UpdateQuantity(gofakeit.UUID(), 7)
	suite.cart.UpdateQuantity(gofakeit.UUID(), 0)

	after := suite.cart.Snapshot()
	assertLines(t, before.Lines, after.Lines)
	assert.Equal(t, before.ItemCount, after.ItemCount)
	assertMoney(t, before.Total.Amount, after.Total)
}

func (suite *aggregatorSuite) TestNonPositiveUpdateEqualsRemove() {
	t := suite.T()

	a, b := randomProduct(), randomProduct()
	updated := cart.New(currency.USD)
	removed := cart.New(currency.USD)
	for _, c := range []*cart.Aggregator{updated, removed} {
		c.AddToCart(a)
		c.AddToCart(b)
		c.AddToCart(b)
	}

	updated.UpdateQuantity(b.ID, 0)
	removed.RemoveFromCart(b.ID)

	assertLines(t, removed.Lines(), updated.Lines())
	assert.Equal(t, removed.ItemCount(), updated.ItemCount())
	assertMoney(t, removed.Total().Amount, updated.Total())
}

func (suite *aggregatorSuite) TestClearCart() {
	tests := []struct {
		name     string
		products int
	}{
		{name: "clear empty cart: ok", products: 0},
		{name: "clear single line: ok", products: 1},
		{name: "clear many lines: ok", products: gofakeit.IntRange(2, 10)},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			c := cart.New(currency.USD)
			for range tt.products {
				c.AddToCart(randomProduct())
			}

			c.ClearCart()

			assert.Empty(t, c.Lines())
			assert.Equal(t, 0, c.ItemCount())
			assert.True(t, c.Total().IsZero())
		})
	}
}

func (suite *aggregatorSuite) TestTotalsAfterInterleavedMutations() {
	t := suite.T()

	products := make([]domain.Product, 6)
	for i := range products {
		products[i] = randomProduct()
	}

	for range 200 {
		p := products[gofakeit.IntRange(0, len(products)-1)]

		switch gofakeit.IntRange(0, 3) {
		case 0, 1:
			suite.cart.AddToCart(p)
		case 2:
			suite.cart.UpdateQuantity(p.ID, gofakeit.IntRange(-2, 9))
		case 3:
			suite.cart.RemoveFromCart(p.ID)
		}

		assertConsistent(t, suite.cart)
	}
}

func (suite *aggregatorSuite) TestWorkedExample() {
	t := suite.T()

	a := productWithPrice("10.00")
	b := productWithPrice("5.00")

	suite.cart.AddToCart(a)
	suite.cart.AddToCart(a)
	suite.cart.AddToCart(b)
	assert.Equal(t, 3, suite.cart.ItemCount())
	assertMoney(t, decimal.RequireFromString("25.00"), suite.cart.Total())

	suite.cart.UpdateQuantity(a.ID, 5)
	assert.Equal(t, 6, suite.cart.ItemCount())
	assertMoney(t, decimal.RequireFromString("55.00"), suite.cart.Total())

	suite.cart.RemoveFromCart(b.ID)
	assert.Equal(t, 5, suite.cart.ItemCount())
	assertMoney(t, decimal.RequireFromString("50.00"), suite.cart.Total())
}

func (suite *aggregatorSuite) TestSnapshotIsDetached() {
	t := suite.T()

	product := randomProduct()
	suite.cart.AddToCart(product)

	snapshot := suite.cart.Snapshot()
	snapshot.Lines[0].Quantity = 99

	lines := suite.cart.Lines()
	lines[0].Quantity = 42

	assert.Equal(t, 1, suite.cart.Lines()[0].Quantity)
	assert.Equal(t, 1, suite.cart.ItemCount())
	assert.Equal(t, suite.cart.ID(), snapshot.CartID)
}

func (suite *aggregatorSuite) TestSubscribe() {
	t := suite.T()

	var first, second []domain.Cart
	unsubscribeFirst := suite.cart.Subscribe(func(c domain.Cart) { first = append(first, c) })
	suite.cart.Subscribe(func(c domain.Cart) { second = append(second, c) })

	product := randomProduct()
	suite.cart.AddToCart(product)
	suite.cart.AddToCart(product)

	// no-ops do not notify
	suite.cart.RemoveFromCart(gofakeit.UUID())
	suite.cart.UpdateQuantity(gofakeit.UUID(), 3)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, 1, first[0].ItemCount)
	assert.Equal(t, 2, first[1].ItemCount)
	assertMoney(t, product.Price.Mul(2).Amount, first[1].Total)

	unsubscribeFirst()
	suite.cart.ClearCart()

	assert.Len(t, first, 2)
	require.Len(t, second, 3)
	assert.True(t, second[2].IsEmpty())
	assert.Equal(t, 0, second[2].ItemCount)
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:          gofakeit.UUID(),
		Name:        gofakeit.ProductName(),
		Category:    gofakeit.ProductCategory(),
		Price:       randomMoney(),
		Rating:      gofakeit.Float64Range(0, 5),
		Image:       gofakeit.URL(),
		Description: gofakeit.ProductDescription(),
		InStock:     true,
	}
}

func productWithPrice(amount string) domain.Product {
	p := randomProduct()
	p.Price = domain.Money{Amount: decimal.RequireFromString(amount), Currency: currency.USD}
	return p
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: currency.USD,
	}
}

func assertConsistent(t *testing.T, c *cart.Aggregator) {
	t.Helper()

	count := 0
	total := decimal.Zero
	seen := make(map[string]bool)

	for _, l := range c.Lines() {
		assert.GreaterOrEqual(t, l.Quantity, 1)
		assert.False(t, seen[l.Product.ID], "duplicate line for %s", l.Product.ID)
		seen[l.Product.ID] = true

		count += l.Quantity
		total = total.Add(l.Product.Price.Amount.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	assert.Equal(t, count, c.ItemCount())
	assertMoney(t, total, c.Total())
}

func assertMoney(t *testing.T, want decimal.Decimal, got domain.Money) {
	t.Helper()

	assert.True(t, want.Equal(got.Amount), "want %s, got %s", want, got.Amount)
}

func assertLines(t *testing.T, expected, actual []domain.CartLine) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
