// Command seed-db provisions a development database: an API key bound to a
// user, and optionally a demo cart exercising every supplier resolution
// tier.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/cart"
	"github.com/satyakarthikeya/link-local-b2b/internal/repository"
)

func main() {
	var (
		databaseURL  string
		apiKey       string
		apiKeyPepper string
		userID       string
		demoCart     bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or LINKLOCAL_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or LINKLOCAL_API_KEY_PEPPER env)")
	flag.StringVar(&userID, "user-id", "dev-user", "user id the API key belongs to")
	flag.BoolVar(&demoCart, "demo-cart", false, "also seed a demo cart for the user")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("LINKLOCAL_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or LINKLOCAL_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("LINKLOCAL_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, apiKey, apiKeyPepper, userID, demoCart); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully", slog.String("user_id", userID))
}

func run(ctx context.Context, databaseURL, apiKey, pepper, userID string, demoCart bool) error {
	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	_, err = pool.Exec(ctx, `INSERT INTO api_keys (id, key_hash, user_id, name, active)
		VALUES ($1, $2, $3, 'dev', TRUE)
		ON CONFLICT (key_hash) DO UPDATE SET user_id = EXCLUDED.user_id, active = TRUE`,
		uuid.New().String(), keyHash, userID,
	)
	if err != nil {
		return errors.Wrap(err, "seed api key")
	}
	slog.Info("api key seeded")

	if !demoCart {
		return nil
	}

	// One item per resolution tier: explicit id, name-matched sibling, and
	// an item that forces a remote owner lookup.
	store := repository.NewCartStore(pool)
	items := []cart.LineItem{
		{
			ProductID:    "prod-rice-25kg",
			Quantity:     2,
			BusinessName: "Ravi Traders",
			UnitPrice:    decimal.RequireFromString("1150.00"),
			SupplierID:   "sup-ravi",
		},
		{
			ProductID:    "prod-dal-5kg",
			Quantity:     1,
			BusinessName: "Ravi Traders",
			UnitPrice:    decimal.RequireFromString("640.00"),
		},
		{
			ProductID:    "prod-oil-1l",
			Quantity:     6,
			BusinessName: "Coastal Supplies",
			UnitPrice:    decimal.RequireFromString("189.00"),
		},
	}
	for _, item := range items {
		if err := store.Add(ctx, userID, item); err != nil {
			return errors.Wrapf(err, "seed cart item %s", item.ProductID)
		}
	}
	slog.Info("demo cart seeded", slog.Int("items", len(items)))

	return nil
}
