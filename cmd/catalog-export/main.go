// Command catalog-export fetches the product catalog and customer list from
// the commerce backend and writes them as a gzipped JSON snapshot, for offline
// inspection or fixture capture.
//
// Usage:
//
//	SHOPIFY_STORE_URL=... SHOPIFY_ACCESS_TOKEN=... catalog-export -out snapshot.json.gz
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/milkdk/storefront/internal/domain/catalog"
	"github.com/milkdk/storefront/internal/domain/customer"
	"github.com/milkdk/storefront/internal/shopify"
)

type snapshot struct {
	FetchedAt time.Time           `json:"fetchedAt"`
	Products  []catalog.Product   `json:"products"`
	Customers []customer.Customer `json:"customers"`
}

func main() {
	out := flag.String("out", "snapshot.json.gz", "output file")
	timeout := flag.Duration("timeout", 30*time.Second, "overall fetch timeout")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, *out, *timeout); err != nil {
		slog.Error("export failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out string, timeout time.Duration) error {
	client := shopify.NewClient(shopify.Config{
		StoreURL:    os.Getenv("SHOPIFY_STORE_URL"),
		AccessToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
	}, nil)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := shopify.NewCatalogReader(client).Products(ctx)
		if err != nil {
			return err
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		customers, err := shopify.NewCustomerReader(client).Customers(ctx)
		if err != nil {
			return err
		}
		snap.Customers = customers
		return nil
	})

	start := time.Now()
	if err := g.Wait(); err != nil {
		return err
	}
	snap.FetchedAt = time.Now().UTC()
	slog.Info("fetched",
		"products", len(snap.Products),
		"customers", len(snap.Customers),
		"took", time.Since(start),
	)

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer func() { _ = f.Close() }()

	zw := pgzip.NewWriter(f)
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "close gzip stream")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}

	slog.Info("wrote snapshot", "path", out)
	return nil
}
