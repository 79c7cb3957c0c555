package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/shutdown"
	"github.com/nikolayk812/storefront/internal/storefront"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log, err := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("logger.New: %w", err)
	}
	defer func() { _ = log.Sync() }()

	products, err := newProductRepository(cfg)
	if err != nil {
		return fmt.Errorf("newProductRepository: %w", err)
	}

	c := cart.New(cfg.Currency, cart.WithLogger(log))
	svc := storefront.NewService(products, c, log)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	unsubscribe := c.Subscribe(func(snapshot domain.Cart) {
		printBadge(os.Stdout, snapshot.ItemCount)
	})
	defer unsubscribe()

	log.Info("storefront started",
		zap.Stringer("cart_id", c.ID()),
		zap.Stringer("currency", cfg.Currency))

	sh := newShell(svc, readLines(os.Stdin), os.Stdout)
	if err := sh.run(ctx); err != nil {
		return fmt.Errorf("shell.run: %w", err)
	}

	log.Info("storefront stopped", zap.Int("item_count", c.ItemCount()))
	return nil
}

func newProductRepository(cfg config.Config) (port.ProductRepository, error) {
	if cfg.CatalogFile != "" {
		return repository.NewProductFromFile(cfg.CatalogFile, cfg.Currency)
	}
	return repository.NewProductFromFixture(cfg.Currency)
}
