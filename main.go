package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/creatorstation/postdesk/internal/config"
	"github.com/creatorstation/postdesk/internal/db"
	"github.com/creatorstation/postdesk/internal/events"
	"github.com/creatorstation/postdesk/internal/generator"
	"github.com/creatorstation/postdesk/internal/ledger"
	"github.com/creatorstation/postdesk/internal/lifecycle"
	"github.com/creatorstation/postdesk/internal/posts"
	"github.com/creatorstation/postdesk/internal/publisher"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/nats-io/nats.go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("Starting postdesk: %s", cfg)

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Error opening ledger: %v", err)
	}
	defer closeStore()

	if err := store.Initialize(ctx); err != nil {
		log.Fatalf("Error initializing ledger: %v", err)
	}

	gen := generator.NewGemini(generator.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	var pub lifecycle.Publisher
	if cfg.PublishMock {
		log.Printf("Publishing in mock mode to %s", cfg.MockTweetsFile)
		pub = publisher.NewMock(cfg.MockTweetsFile)
	} else {
		pub = publisher.NewTwitter(publisher.Credentials{
			APIKey:            cfg.TwitterAPIKey,
			APISecret:         cfg.TwitterAPISecret,
			AccessToken:       cfg.TwitterAccessToken,
			AccessTokenSecret: cfg.TwitterAccessTokenSecret,
		}, cfg.TwitterBaseURL, cfg.HTTPTimeout)
	}

	var notifier events.Notifier = events.Nop{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("postdesk"))
		if err != nil {
			log.Fatalf("Error connecting to NATS: %v", err)
		}
		defer nc.Drain()
		notifier = events.NewNatsNotifier(nc)
	}

	svc := lifecycle.NewService(store, gen, pub, notifier)

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	posts.MountController(app, svc)

	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down: %v", err)
	}
}

// openStore picks the ledger backend. The returned func releases its connection.
func openStore(ctx context.Context, cfg config.Config) (ledger.Store, func(), error) {
	images := ledger.NewImageDir(cfg.UploadDir)

	switch cfg.LedgerDriver {
	case config.DriverPostgres:
		gdb, err := db.Connect(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return ledger.NewSQLStore(gdb, images), func() { db.Close(gdb) }, nil

	case config.DriverMongo:
		mdb, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return ledger.NewMongoStore(mdb, images), func() {
			if err := mdb.Client().Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		}, nil

	default:
		return ledger.NewCSVStore(cfg.LedgerFile, images), func() {}, nil
	}
}
