package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/storefront"
)

const helpText = `Commands:
  list [query]      list products, filtered by name or category
  show <id>         product details
  add <id>          add one unit to the cart
  cart              show the cart
  inc <id>          increase quantity by one
  dec <id>          decrease quantity by one
  qty <id> <n>      set quantity
  remove <id>       remove a product from the cart
  clear             empty the cart
  help              this text
  quit              leave the store`

type shell struct {
	svc *storefront.Service
	in  <-chan string
	out io.Writer

	// set by run, read by Confirm
	ctx context.Context
}

func newShell(svc *storefront.Service, in <-chan string, out io.Writer) *shell {
	return &shell{svc: svc, in: in, out: out}
}

// readLines feeds lines of r into the returned channel until EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	return lines
}

func (s *shell) run(ctx context.Context) error {
	s.ctx = ctx
	s.printf("Shop Products. Type \"help\" for commands.\n")

	for {
		s.printf("> ")

		line, ok, err := s.next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if quit := s.exec(ctx, line); quit || ctx.Err() != nil {
			return nil
		}
	}
}

func (s *shell) next(ctx context.Context) (string, bool, error) {
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", false, nil
		}
		return "", false, ctx.Err()
	case line, ok := <-s.in:
		return strings.TrimSpace(line), ok, nil
	}
}

func (s *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		s.printf("%s\n", helpText)
	case "list":
		s.list(ctx, strings.Join(args, " "))
	case "show":
		s.withID(args, func(id string) { s.show(ctx, id) })
	case "add":
		s.withID(args, func(id string) { s.add(ctx, id) })
	case "cart":
		s.render(storefront.RenderCart(s.out, s.svc.Cart()))
	case "inc":
		s.withID(args, func(id string) { s.reportUnchanged(s.svc.IncrementQuantity(id)) })
	case "dec":
		s.withID(args, func(id string) { s.reportUnchanged(s.svc.DecrementQuantity(id, s)) })
	case "qty":
		s.setQuantity(args)
	case "remove":
		s.withID(args, func(id string) { s.reportUnchanged(s.svc.RemoveItem(id, s)) })
	case "clear":
		s.reportUnchanged(s.svc.ClearCart(s))
	default:
		s.printf("Unknown command %q. Type \"help\" for commands.\n", cmd)
	}

	return false
}

// Confirm implements storefront.Confirmer by reading a yes/no answer.
// A canceled run context answers no.
func (s *shell) Confirm(title, message string) bool {
	s.printf("%s: %s [y/N] ", title, message)

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	answer, ok, err := s.next(ctx)
	if err != nil || !ok {
		return false
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (s *shell) list(ctx context.Context, query string) {
	products, err := s.svc.ListProducts(ctx, query)
	if err != nil {
		s.printf("Error: Failed to load products. Please try again.\n")
		return
	}

	s.render(storefront.RenderProducts(s.out, products))
}

func (s *shell) show(ctx context.Context, id string) {
	p, err := s.svc.ProductDetail(ctx, id)
	if err != nil {
		s.productError(err)
		return
	}

	s.render(storefront.RenderProduct(s.out, p))
}

func (s *shell) add(ctx context.Context, id string) {
	p, err := s.svc.AddToCart(ctx, id)
	if err != nil {
		s.productError(err)
		return
	}

	s.printf("Added to Cart: %s has been added to your cart.\n", p.Name)
}

func (s *shell) setQuantity(args []string) {
	if len(args) != 2 {
		s.printf("Usage: qty <id> <n>\n")
		return
	}

	n, err := strconv.Atoi(args[1])
	if err != nil {
		s.printf("Quantity must be a whole number.\n")
		return
	}

	s.reportUnchanged(s.svc.ChangeQuantity(args[0], n, s))
}

func (s *shell) productError(err error) {
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		s.printf("Out of Stock: This item is currently unavailable.\n")
	case errors.Is(err, domain.ErrProductNotFound):
		s.printf("Error: Product not found.\n")
	default:
		s.printf("Error: %v\n", err)
	}
}

func (s *shell) withID(args []string, fn func(id string)) {
	if len(args) != 1 {
		s.printf("Usage: <command> <id>\n")
		return
	}
	fn(args[0])
}

func (s *shell) reportUnchanged(changed bool) {
	if !changed {
		s.printf("Cart unchanged.\n")
	}
}

func (s *shell) render(err error) {
	if err != nil {
		s.printf("Error: %v\n", err)
	}
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func printBadge(w io.Writer, count int) {
	if badge := storefront.Badge(count); badge != "" {
		fmt.Fprintf(w, "[cart: %s]\n", badge)
		return
	}
	fmt.Fprintln(w, "[cart: empty]")
}
