package storefront

import (
	"strconv"

	"github.com/nikolayk812/storefront/internal/domain"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	itemsInCartKey = "%d item(s) in your cart"
	badgeLimit     = 99
)

var printer = newPrinter()

func newPrinter() *message.Printer {
	b := catalog.NewBuilder()

	err := b.Set(language.English, itemsInCartKey, plural.Selectf(1, "%d",
		"=1", "%d item in your cart",
		"other", "%d items in your cart",
	))
	if err != nil {
		panic(err)
	}

	return message.NewPrinter(language.English, message.Catalog(b))
}

type Summary struct {
	ItemCount int
	Total     domain.Money
	Caption   string
	Empty     bool
}

func newSummary(cart domain.Cart) Summary {
	return Summary{
		ItemCount: cart.ItemCount,
		Total:     cart.Total,
		Caption:   ItemsCaption(cart.ItemCount),
		Empty:     cart.IsEmpty(),
	}
}

func ItemsCaption(count int) string {
	return printer.Sprintf(itemsInCartKey, count)
}

// Badge is the label of the cart tab: hidden when empty, capped at "99+".
func Badge(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > badgeLimit:
		return strconv.Itoa(badgeLimit) + "+"
	default:
		return strconv.Itoa(count)
	}
}
