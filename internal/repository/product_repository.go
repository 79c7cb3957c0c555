package repository

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/search"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/products.yaml
var defaultFixture []byte

type productRepository struct {
	products []domain.Product
	byID     map[string]int
}

// NewProductFromFixture returns a repository over the catalog bundled with the binary.
func NewProductFromFixture(unit currency.Unit) (port.ProductRepository, error) {
	return NewProductFromReader(bytes.NewReader(defaultFixture), unit)
}

func NewProductFromFile(path string, unit currency.Unit) (port.ProductRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return NewProductFromReader(f, unit)
}

// NewProductFromReader decodes a YAML catalog. Every product must be priced in unit.
func NewProductFromReader(r io.Reader, unit currency.Unit) (port.ProductRepository, error) {
	var doc catalogDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("yaml.Decode: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(doc.Currency)
	if err != nil {
		return nil, fmt.Errorf("currency[%s] is not valid: %w", doc.Currency, err)
	}
	if parsedCurrency != unit {
		return nil, fmt.Errorf("catalog currency[%s] does not match %s", parsedCurrency, unit)
	}

	products, err := mapProductRowsToDomain(doc.Products, parsedCurrency)
	if err != nil {
		return nil, fmt.Errorf("mapProductRowsToDomain: %w", err)
	}

	return NewProduct(products)
}

func NewProduct(products []domain.Product) (port.ProductRepository, error) {
	r := &productRepository{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, fmt.Errorf("product[%s]: %w", p.ID, err)
		}
		if _, ok := r.byID[p.ID]; ok {
			return nil, fmt.Errorf("product[%s] is duplicated", p.ID)
		}

		r.byID[p.ID] = len(r.products)
		r.products = append(r.products, p)
	}

	return r, nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return append([]domain.Product(nil), r.products...), nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, fmt.Errorf("productID is empty")
	}
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	i, ok := r.byID[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}

	return r.products[i], nil
}

// SearchProducts returns products whose name or category contains query,
// ignoring case. A blank query matches everything.
func (r *productRepository) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.ListProducts(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := search.New(language.English, search.IgnoreCase)

	var result []domain.Product
	for _, p := range r.products {
		if contains(m, p.Name, query) || contains(m, p.Category, query) {
			result = append(result, p)
		}
	}

	return result, nil
}

func contains(m *search.Matcher, s, pat string) bool {
	start, _ := m.IndexString(s, pat)
	return start >= 0
}

func validateProduct(p domain.Product) error {
	if p.ID == "" {
		return fmt.Errorf("productID is empty")
	}
	if p.Price.Amount.IsNegative() {
		return fmt.Errorf("price[%s] is negative", p.Price.Amount)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("rating[%v] is out of range", p.Rating)
	}
	return nil
}

type catalogDoc struct {
	Currency string       `yaml:"currency"`
	Products []productRow `yaml:"products"`
}

type productRow struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Price       string  `yaml:"price"`
	Rating      float64 `yaml:"rating"`
	Image       string  `yaml:"image"`
	Description string  `yaml:"description"`
	InStock     bool    `yaml:"in_stock"`
}

func mapProductRowToDomain(row productRow, unit currency.Unit) (domain.Product, error) {
	amount, err := decimal.NewFromString(row.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price[%s] is not valid: %w", row.Price, err)
	}

	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Category:    row.Category,
		Price:       domain.Money{Amount: amount, Currency: unit},
		Rating:      row.Rating,
		Image:       row.Image,
		Description: row.Description,
		InStock:     row.InStock,
	}, nil
}

func mapProductRowsToDomain(rows []productRow, unit currency.Unit) ([]domain.Product, error) {
	var products []domain.Product

	for _, row := range rows {
		product, err := mapProductRowToDomain(row, unit)
		if err != nil {
			return nil, fmt.Errorf("mapProductRowToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}
