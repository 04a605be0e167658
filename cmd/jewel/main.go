// Package main provides the jewel command line client.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/samber/do/v2"

	"github.com/jewelapp/jewel-client/internal/catalog"
	"github.com/jewelapp/jewel-client/internal/checkout"
	"github.com/jewelapp/jewel-client/internal/di"
	"github.com/jewelapp/jewel-client/internal/di/providers"
	"github.com/jewelapp/jewel-client/internal/domain"
	"github.com/jewelapp/jewel-client/internal/logger"
	"github.com/jewelapp/jewel-client/internal/media/images"
	"github.com/jewelapp/jewel-client/internal/notify"
	"github.com/jewelapp/jewel-client/internal/session"
	"github.com/jewelapp/jewel-client/internal/sync"
)

const usage = `Usage: jewel [flags] <command> [args]

Commands:
  signup <username> <password>   Create an account and log in
  login <username> <password>    Log in
  logout                         Log out (local lists are kept)
  whoami                         Show the current session
  cart show|add|rm|clear         Manage the cart
  wish show|add|rm               Manage the wishlist
  sync                           Reconcile local lists with the account
  catalog refresh|show|search    Browse the offline catalog
  product <id>                   Show a single product
  image <id>                     Cache a product's primary image
  checkout                       Place the cart as an order
  orders                         Show order history
  darkmode on|off|show           Toggle the dark mode preference

Global flags go before the command (see -help).`

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, injector, flag.Args())

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		log.Error("Shutdown error", "error", shutdownErr)
	}
	if storeHandle, invokeErr := do.Invoke[*providers.StoreHandle](injector); invokeErr == nil {
		if closeErr := storeHandle.Shutdown(); closeErr != nil {
			log.Error("Failed to close local store", "error", closeErr)
		}
	}
	if searchHandle, invokeErr := do.Invoke[*providers.SearchIndexHandle](injector); invokeErr == nil {
		if closeErr := searchHandle.Shutdown(); closeErr != nil {
			log.Error("Failed to close catalog index", "error", closeErr)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, injector do.Injector, args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "signup":
		return runSignup(ctx, injector, rest)
	case "login":
		return runLogin(ctx, injector, rest)
	case "logout":
		return runLogout(ctx, injector)
	case "whoami":
		return runWhoami(injector)
	case "cart":
		return runCart(ctx, injector, rest)
	case "wish":
		return runWish(ctx, injector, rest)
	case "sync":
		return runSync(ctx, injector)
	case "catalog":
		return runCatalog(ctx, injector, rest)
	case "product":
		return runProduct(ctx, injector, rest)
	case "image":
		return runImage(ctx, injector, rest)
	case "checkout":
		return runCheckout(ctx, injector, rest)
	case "orders":
		return runOrders(ctx, injector)
	case "darkmode":
		return runDarkmode(injector, rest)
	case "help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q (try 'jewel help')", cmd)
	}
}

func runSignup(ctx context.Context, injector do.Injector, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	whatsapp := fs.String("whatsapp", "", "WhatsApp number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: jewel signup <username> <password> [-whatsapp N]")
	}

	sessions := do.MustInvoke[*session.Service](injector)
	user, err := sessions.Signup(ctx, fs.Arg(0), fs.Arg(1), *whatsapp)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s\n", user.Username)
	return nil
}

func runLogin(ctx context.Context, injector do.Injector, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: jewel login <username> <password>")
	}

	sessions := do.MustInvoke[*session.Service](injector)
	user, err := sessions.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", user.Username)
	return nil
}

func runLogout(ctx context.Context, injector do.Injector) error {
	sessions := do.MustInvoke[*session.Service](injector)
	if err := sessions.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out. Your cart and wishlist stay on this device.")
	return nil
}

func runWhoami(injector do.Injector) error {
	sessions := do.MustInvoke[*session.Service](injector)
	sess := sessions.Current()
	if !sess.IsLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}
	if sess.User != nil {
		fmt.Printf("%s\n", sess.User.Username)
	} else {
		fmt.Println("Logged in (profile not cached)")
	}
	return nil
}

func runCart(ctx context.Context, injector do.Injector, args []string) error {
	coordinator := do.MustInvoke[*sync.Coordinator](injector)

	if len(args) == 0 {
		args = []string{"show"}
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "show":
		cart, state := coordinator.Cart(ctx)
		printCart(cart, state)
		return nil
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ExitOnError)
		size := fs.String("size", "", "size variant")
		metal := fs.String("metal", "", "metal variant")
		qty := fs.Int("qty", 1, "quantity")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("usage: jewel cart add <productID> [-size S] [-metal M] [-qty N]")
		}
		if err := coordinator.AddToCart(ctx, fs.Arg(0), *size, *metal, *qty); err != nil {
			return err
		}
		cart, state := coordinator.Cart(ctx)
		printCart(cart, state)
		return nil
	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("usage: jewel cart rm <productID>")
		}
		if err := coordinator.RemoveFromCart(ctx, rest[0]); err != nil {
			return err
		}
		cart, state := coordinator.Cart(ctx)
		printCart(cart, state)
		return nil
	case "clear":
		return coordinator.ClearCart(ctx)
	default:
		return fmt.Errorf("unknown cart command %q", sub)
	}
}

func runWish(ctx context.Context, injector do.Injector, args []string) error {
	coordinator := do.MustInvoke[*sync.Coordinator](injector)
	cat := do.MustInvoke[*catalog.Service](injector)

	if len(args) == 0 {
		args = []string{"show"}
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "show":
		list, state := coordinator.Wishlist(ctx)
		printWishlist(list, state, cat)
		return nil
	case "add":
		if len(rest) != 1 {
			return fmt.Errorf("usage: jewel wish add <productID>")
		}
		return coordinator.AddToWishlist(ctx, rest[0])
	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("usage: jewel wish rm <productID>")
		}
		return coordinator.RemoveFromWishlist(ctx, rest[0])
	default:
		return fmt.Errorf("unknown wish command %q", sub)
	}
}

func runSync(ctx context.Context, injector do.Injector) error {
	coordinator := do.MustInvoke[*sync.Coordinator](injector)

	if err := coordinator.MergeOnLogin(ctx); err != nil {
		return err
	}
	cart, cartState := coordinator.Cart(ctx)
	list, wishState := coordinator.Wishlist(ctx)
	fmt.Printf("Cart: %d items (%s). Wishlist: %d items (%s).\n",
		cart.TotalQuantity(), cartState, len(list), wishState)
	return nil
}

func runCatalog(ctx context.Context, injector do.Injector, args []string) error {
	cat := do.MustInvoke[*catalog.Service](injector)

	if len(args) == 0 {
		args = []string{"show"}
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "refresh":
		count, err := cat.Refresh(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Catalog refreshed: %d products\n", count)
		return nil
	case "show":
		fs := flag.NewFlagSet("catalog show", flag.ExitOnError)
		category := fs.String("category", "", "filter by category")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		var (
			products []*domain.Product
			err      error
		)
		if *category != "" {
			products, err = cat.ListByCategory(ctx, *category)
		} else {
			products, err = cat.List(ctx)
		}
		if err != nil {
			return err
		}
		printProducts(products)
		return nil
	case "search":
		fs := flag.NewFlagSet("catalog search", flag.ExitOnError)
		category := fs.String("category", "", "filter by category")
		minPrice := fs.Float64("min", 0, "minimum price")
		maxPrice := fs.Float64("max", 0, "maximum price")
		limit := fs.Int("limit", 20, "maximum results")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		hits, total, err := cat.Search(ctx, catalog.SearchParams{
			Query:    strings.Join(fs.Args(), " "),
			Category: *category,
			MinPrice: *minPrice,
			MaxPrice: *maxPrice,
			Limit:    *limit,
		})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, hit := range hits {
			fmt.Fprintf(w, "%s\t%s\t%s\t₹%.0f\n", hit.ProductID, hit.Title, hit.Category, hit.Price)
		}
		w.Flush()
		fmt.Printf("%d of %d results\n", len(hits), total)
		return nil
	default:
		return fmt.Errorf("unknown catalog command %q", sub)
	}
}

func runProduct(ctx context.Context, injector do.Injector, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: jewel product <id>")
	}

	cat := do.MustInvoke[*catalog.Service](injector)
	product, err := cat.Get(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", product.Title)
	fmt.Printf("₹%.0f  %s", product.Price, product.Category)
	if !product.InStock {
		fmt.Print("  (out of stock)")
	}
	fmt.Println()
	if len(product.Metals) > 0 {
		fmt.Printf("Metals: %s\n", strings.Join(product.Metals, ", "))
	}
	if len(product.Sizes) > 0 {
		fmt.Printf("Sizes: %s\n", strings.Join(product.Sizes, ", "))
	}
	if desc := cat.Description(product); desc != "" {
		fmt.Printf("\n%s\n", desc)
	}
	return nil
}

func runImage(ctx context.Context, injector do.Injector, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: jewel image <productID>")
	}

	cat := do.MustInvoke[*catalog.Service](injector)
	processor := do.MustInvoke[*images.Processor](injector)

	product, err := cat.Get(ctx, args[0])
	if err != nil {
		return err
	}
	imageURL := product.PrimaryImage()
	if imageURL == "" {
		return fmt.Errorf("product %s has no images", product.ID)
	}

	result, err := processor.Process(ctx, product.ID, imageURL)
	if err != nil {
		return err
	}
	fmt.Printf("Original:  %s\n", result.OriginalPath)
	fmt.Printf("Thumbnail: %s\n", result.ThumbnailPath)
	if result.BlurHash != "" {
		fmt.Printf("BlurHash:  %s\n", result.BlurHash)
	}
	return nil
}

func runCheckout(ctx context.Context, injector do.Injector, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	name := fs.String("name", "", "recipient name")
	whatsapp := fs.String("whatsapp", "", "WhatsApp number")
	alternate := fs.String("alternate", "", "alternate number")
	address := fs.String("address", "", "street address")
	pincode := fs.String("pincode", "", "6 digit pincode")
	state := fs.String("state", "", "state")
	district := fs.String("district", "", "district")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := do.MustInvoke[*checkout.Service](injector)
	order, err := svc.PlaceOrder(ctx, domain.ShippingDetails{
		Name:            *name,
		WhatsappNumber:  *whatsapp,
		AlternateNumber: *alternate,
		Address:         *address,
		Pincode:         *pincode,
		State:           *state,
		District:        *district,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Order %s placed: %d items, ₹%.0f\n", order.ID, len(order.Items), order.Total)
	return nil
}

func runOrders(ctx context.Context, injector do.Injector) error {
	svc := do.MustInvoke[*checkout.Service](injector)
	orders, err := svc.History(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, order := range orders {
		fmt.Fprintf(w, "%s\t%s\t%d items\t₹%.0f\t%s\n",
			order.ID, order.CreatedAt.Format("2006-01-02"), len(order.Items), order.Total, order.Status)
	}
	return w.Flush()
}

func runDarkmode(injector do.Injector, args []string) error {
	storeHandle := do.MustInvoke[*providers.StoreHandle](injector)
	busHandle := do.MustInvoke[*providers.BusHandle](injector)

	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "show":
		if storeHandle.DarkMode() {
			fmt.Println("Dark mode is on")
		} else {
			fmt.Println("Dark mode is off")
		}
		return nil
	case "on", "off":
		enabled := sub == "on"
		if err := storeHandle.SetDarkMode(enabled); err != nil {
			return err
		}
		busHandle.Emit(notify.NewEvent(notify.EventPrefsUpdated, notify.PrefsEventData{DarkMode: enabled}))
		fmt.Printf("Dark mode %s\n", sub)
		return nil
	default:
		return fmt.Errorf("usage: jewel darkmode on|off|show")
	}
}

func printCart(cart domain.Cart, state domain.SyncState) {
	if len(cart) == 0 {
		fmt.Printf("Cart is empty (%s)\n", state)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, item := range cart {
		variant := item.Size
		if item.Metal != "" {
			if variant != "" {
				variant += "/"
			}
			variant += item.Metal
		}
		fmt.Fprintf(w, "%s\t%s\t%s\tx%d\t₹%.0f\n", item.ProductID, item.Title, variant, item.Quantity, item.Price*float64(item.Quantity))
	}
	w.Flush()
	fmt.Printf("%d items, ₹%.0f (%s)\n", cart.TotalQuantity(), cart.Subtotal(), state)
}

func printProducts(products []*domain.Product) {
	if len(products) == 0 {
		fmt.Println("No products in the catalog, run `jewel catalog refresh`")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, product := range products {
		stock := ""
		if !product.InStock {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t₹%.0f\t%s\n", product.ID, product.Title, product.Category, product.Price, stock)
	}
	w.Flush()
	fmt.Printf("%d products\n", len(products))
}

func printWishlist(list domain.Wishlist, state domain.SyncState, cat *catalog.Service) {
	if len(list) == 0 {
		fmt.Printf("Wishlist is empty (%s)\n", state)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, productID := range list {
		title := ""
		if product, ok := cat.Product(productID); ok {
			title = product.Title
		}
		fmt.Fprintf(w, "%s\t%s\n", productID, title)
	}
	w.Flush()
	fmt.Printf("%d items (%s)\n", len(list), state)
}
