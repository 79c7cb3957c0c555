package storefront

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nikolayk812/storefront/internal/domain"
)

func stockLabel(p domain.Product) string {
	if p.InStock {
		return "In Stock"
	}
	return "Out of Stock"
}

func RenderProducts(w io.Writer, products []domain.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found\nTry adjusting your search")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
			p.ID, p.Name, p.Category, p.Price, p.Rating, stockLabel(p))
	}

	return tw.Flush()
}

func RenderProduct(w io.Writer, p domain.Product) error {
	_, err := fmt.Fprintf(w, "%s\n%s  *  %g / 5.0\n%s\n%s\n\nDescription\n%s\nImage: %s\n",
		p.Name, p.Category, p.Rating, p.Price, stockLabel(p), p.Description, p.Image)
	return err
}

func RenderCart(w io.Writer, cart domain.Cart) error {
	if cart.IsEmpty() {
		_, err := fmt.Fprintln(w, "Your cart is empty\nAdd some products to get started with your shopping.")
		return err
	}

	s := newSummary(cart)
	fmt.Fprintf(w, "Shopping Cart\n%s\n\n", s.Caption)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range cart.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			l.Product.ID, l.Product.Name, l.Product.Price, l.Quantity, l.Subtotal())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal Items: %d\nTotal: %s\n", s.ItemCount, s.Total)
	return err
}
