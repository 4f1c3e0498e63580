// Command gatekeeper runs the authenticating reverse-proxy gateway: it loads
// the JSON configuration, opens the user database, loads the RSA key pair,
// and serves the register/login endpoints plus the configured proxied routes.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	gatekeeper "github.com/telamon-labs/go-gatekeeper"
	"github.com/telamon-labs/go-gatekeeper/config"
)

func main() {
	configPath := flag.String("config", "gatekeeper.json", "path to the JSON configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	applog := stdLogger{}
	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	// A missing key pair is logged once here; the token service then fails
	// fast on every sign/verify call instead of retrying the load.
	keys, err := gatekeeper.LoadKeyPair(cfg.Keys.Private, cfg.Keys.Public)
	if err != nil {
		applog.Error("key material unavailable, token issuance and verification disabled", "error", err)
		keys = nil
	}

	tokens := gatekeeper.NewTokenService(
		keys,
		cfg.Token.ExpirationHours,
		cfg.Token.Issuer,
		cfg.Token.Audience,
		applog,
	)
	users := gatekeeper.NewUsersRepository(db)
	flows := gatekeeper.NewFlows(tokens, users, gatekeeper.WithFlowsLogger(applog))

	app := fiber.New(fiber.Config{
		AppName:               "gatekeeper",
		DisableStartupMessage: true,
		ErrorHandler:          gatekeeper.NewErrorHandler(applog),
	})
	app.Use(requestid.New())
	app.Use(fiberlogger.New())

	app.Post("/register", flows.RegisterUser, flows.IssueToken, gatekeeper.SendToken)
	app.Post("/login", flows.VerifyLogin, flows.IssueToken, gatekeeper.SendToken)

	for _, route := range cfg.Routes {
		policy := gatekeeper.RoutePolicy{Public: route.Public}
		app.All(route.Path, flows.VerifyAccess(policy), forward(route.Target))
		app.All(route.Path+"/*", flows.VerifyAccess(policy), forward(route.Target))
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	applog.Info("gatekeeper listening", "addr", addr, "routes", len(cfg.Routes))
	return app.Listen(addr)
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*gatekeeper.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("unable to create users table: %w", err)
	}

	return db, nil
}

// forward proxies the matched request to the configured upstream target,
// preserving the original path and query.
func forward(target string) fiber.Handler {
	base := strings.TrimRight(target, "/")
	return func(c *fiber.Ctx) error {
		return proxy.Do(c, base+c.OriginalURL())
	}
}

type stdLogger struct{}

func (stdLogger) Debug(format string, args ...any) { logWith("DBG", format, args...) }
func (stdLogger) Info(format string, args ...any)  { logWith("INF", format, args...) }
func (stdLogger) Warn(format string, args ...any)  { logWith("WRN", format, args...) }
func (stdLogger) Error(format string, args ...any) { logWith("ERR", format, args...) }

func logWith(level, msg string, args ...any) {
	if len(args) == 0 {
		log.Printf("[%s] %s", level, msg)
		return
	}
	log.Printf("[%s] %s %v", level, msg, args)
}
