package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/salessavvy/storefront/internal/cart"
	"github.com/salessavvy/storefront/internal/catalog"
	"github.com/salessavvy/storefront/internal/checkout"
	"github.com/salessavvy/storefront/internal/gateway"
	"github.com/salessavvy/storefront/internal/orders"
	"github.com/salessavvy/storefront/internal/pricing"
	"github.com/salessavvy/storefront/pkg/config"
	"github.com/salessavvy/storefront/pkg/localstore"
	"github.com/salessavvy/storefront/pkg/logger"
	"github.com/salessavvy/storefront/pkg/metrics"
	"github.com/salessavvy/storefront/pkg/redis"
)

type closer interface {
	Close() error
}

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "catalog", "command: catalog|cart|add|set|remove|orders|checkout|verify")
	user := flag.String("user", "", "username for cart and cache scoping")

	// Command-specific flags
	category := flag.String("category", "", "catalog category filter")
	search := flag.String("search", "", "catalog search query")
	page := flag.Int("page", 1, "catalog page")
	perPage := flag.Int("per-page", 8, "catalog page size")
	product := flag.String("product", "", "product id (for add|set|remove)")
	qty := flag.Int("qty", 1, "quantity (for set)")
	orderID := flag.String("order", "", "payment order id (for verify)")
	paymentID := flag.String("payment", "", "payment id (for verify)")
	signature := flag.String("signature", "", "payment signature (for verify)")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	m := metrics.NewStorefrontMetrics(nil)

	client, err := gateway.NewClient(cfg.API, logg, m)
	requireResource(ctx, logg, "gateway client", err)

	store, storeCloser, err := openCacheStore(ctx, cfg, logg)
	requireResource(ctx, logg, "cache store", err)
	defer func() {
		if err := storeCloser.Close(); err != nil {
			logg.Error(ctx, "error closing cache store", err)
		}
	}()

	orderCache, err := catalog.NewOrderCache(catalog.OrderCacheParams{
		Store:   store,
		TTL:     cfg.Cache.TTL,
		Logger:  logg,
		Metrics: m,
	})
	requireResource(ctx, logg, "order cache", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		Backend: client,
		Logger:  logg,
		Metrics: m,
	})
	requireResource(ctx, logg, "cart service", err)

	ordersService, err := orders.NewService(client)
	requireResource(ctx, logg, "orders service", err)

	checkoutService, err := checkout.NewService(client, logg)
	requireResource(ctx, logg, "checkout service", err)

	switch *cmd {
	case "catalog":
		err = runCatalog(ctx, client, orderCache, cartService, *user, *category, *search, *page, *perPage)
	case "cart":
		err = runCart(ctx, client, cartService, requireUser(ctx, logg, *user))
	case "add":
		err = runMutation(ctx, client, cartService, requireUser(ctx, logg, *user), func(username string, svc cart.Service) (cart.Snapshot, error) {
			return svc.Add(ctx, username, requireProduct(ctx, logg, *product))
		})
	case "set":
		err = runMutation(ctx, client, cartService, requireUser(ctx, logg, *user), func(username string, svc cart.Service) (cart.Snapshot, error) {
			return svc.SetQuantity(ctx, username, requireProduct(ctx, logg, *product), *qty)
		})
	case "remove":
		err = runMutation(ctx, client, cartService, requireUser(ctx, logg, *user), func(username string, svc cart.Service) (cart.Snapshot, error) {
			return svc.Remove(ctx, username, requireProduct(ctx, logg, *product))
		})
	case "orders":
		err = runOrders(ctx, ordersService)
	case "checkout":
		err = runCheckout(ctx, cartService, checkoutService, requireUser(ctx, logg, *user))
	case "verify":
		err = checkoutService.Confirm(ctx, *orderID, *paymentID, *signature)
		if err == nil {
			fmt.Println("payment verified")
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *cmd)
		os.Exit(1)
	}
	if err != nil {
		logg.Error(ctx, "command failed", err)
		os.Exit(1)
	}
}

// openCacheStore picks the shuffle-cache backend from configuration:
// a shared Redis instance, or a local SQLite file.
func openCacheStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (catalog.KeyValueStore, closer, error) {
	if cfg.Cache.Store == config.CacheStoreRedis {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
	store, err := localstore.New(ctx, cfg.Local, logg)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}

func runCatalog(ctx context.Context, client *gateway.Client, cache *catalog.OrderCache, cartService cart.Service, user, category, search string, page, perPage int) error {
	payload, err := client.FetchCatalog(ctx, category)
	if err != nil {
		return err
	}
	products, err := catalog.ProductsFromPayload(payload)
	if err != nil {
		return err
	}

	username := user
	if username == "" {
		username = payload.User.Name
	}
	ordered := cache.Order(ctx, username, products)
	filtered := catalog.FilterProducts(ordered, search)
	pageItems := catalog.Paginate(filtered, page, perPage)

	ledger := catalog.BuildStockLedger(products)
	cartService.ReplaceStock(ledger)

	fmt.Printf("%d products (page %d of %d)\n", len(filtered), page, catalog.PageCount(len(filtered), perPage))
	for _, p := range pageItems {
		line := fmt.Sprintf("  [%s] %s  ₹%s", p.ID, p.Name, p.Price.StringFixed(2))
		if available, tracked := ledger.Available(p.ID); tracked && available > 0 {
			line += fmt.Sprintf("  (stock: %d)", available)
		}
		fmt.Println(line)
	}
	return nil
}

func runCart(ctx context.Context, client *gateway.Client, svc cart.Service, username string) error {
	if err := refreshStock(ctx, client, svc); err != nil {
		return err
	}
	snapshot, err := svc.Load(ctx, username)
	if err != nil {
		return err
	}
	printCart(snapshot)
	return nil
}

func runMutation(ctx context.Context, client *gateway.Client, svc cart.Service, username string, mutate func(string, cart.Service) (cart.Snapshot, error)) error {
	if err := refreshStock(ctx, client, svc); err != nil {
		return err
	}
	if _, err := svc.Load(ctx, username); err != nil {
		return err
	}
	snapshot, err := mutate(username, svc)
	if err != nil {
		return err
	}
	printCart(snapshot)
	return nil
}

func runOrders(ctx context.Context, svc *orders.Service) error {
	history, err := svc.History(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no past orders")
		return nil
	}
	for _, order := range history {
		fmt.Printf("order %s  total ₹%s\n", order.OrderID, order.Total().StringFixed(2))
		for _, line := range order.Lines {
			fmt.Printf("  %s x%d  ₹%s\n", line.Name, line.Quantity, line.TotalPrice.StringFixed(2))
		}
	}
	return nil
}

func runCheckout(ctx context.Context, cartService cart.Service, svc *checkout.Service, username string) error {
	snapshot, err := cartService.Load(ctx, username)
	if err != nil {
		return err
	}
	printCart(snapshot)

	orderID, err := svc.CreateOrder(ctx, snapshot)
	if err != nil {
		return err
	}
	fmt.Printf("payment order created: %s (₹%s, %d paise)\n",
		orderID, snapshot.Subtotal.StringFixed(2), checkout.AmountPaise(snapshot.Subtotal))
	fmt.Println("complete the payment, then run -cmd verify with the provider's ids")
	return nil
}

// refreshStock rebuilds the stock ledger from a fresh catalog fetch so
// cart caps reflect current availability.
func refreshStock(ctx context.Context, client *gateway.Client, svc cart.Service) error {
	payload, err := client.FetchCatalog(ctx, "")
	if err != nil {
		return err
	}
	products, err := catalog.ProductsFromPayload(payload)
	if err != nil {
		return err
	}
	svc.ReplaceStock(catalog.BuildStockLedger(products))
	return nil
}

func printCart(snapshot cart.Snapshot) {
	if snapshot.Empty() {
		fmt.Println("cart is empty")
		return
	}
	for _, item := range snapshot.Items {
		fmt.Printf("  [%s] %s x%d  ₹%s\n", item.ProductID, item.Name, item.Quantity, item.TotalPrice.StringFixed(2))
	}
	breakdown := pricing.Compute(snapshot.Subtotal).Rounded()
	fmt.Printf("subtotal   ₹%s\n", breakdown.Subtotal.StringFixed(2))
	fmt.Printf("  base     ₹%s\n", breakdown.Base.StringFixed(2))
	fmt.Printf("  SGST 9%%  ₹%s\n", breakdown.SGST.StringFixed(2))
	fmt.Printf("  CGST 9%%  ₹%s\n", breakdown.CGST.StringFixed(2))
	fmt.Printf("shipping   ₹%s\n", breakdown.Shipping.StringFixed(2))
	fmt.Printf("total      ₹%s\n", breakdown.GrandTotal.StringFixed(2))
}

func requireUser(ctx context.Context, logg *logger.Logger, user string) string {
	if user == "" {
		logg.Error(ctx, "missing -user flag", nil)
		os.Exit(1)
	}
	return user
}

func requireProduct(ctx context.Context, logg *logger.Logger, product string) string {
	if product == "" {
		logg.Error(ctx, "missing -product flag", nil)
		os.Exit(1)
	}
	return product
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(ctx, "failed to bootstrap "+name, err)
		os.Exit(1)
	}
}
