package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/cart"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/ariefcatur/go-shop-orders/internal/config"
	"github.com/ariefcatur/go-shop-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-shop-orders/internal/kafka"
	"github.com/ariefcatur/go-shop-orders/internal/metrics"
	"github.com/ariefcatur/go-shop-orders/internal/notify"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/ariefcatur/go-shop-orders/internal/postgres"
	"github.com/ariefcatur/go-shop-orders/internal/redisx"
	"github.com/ariefcatur/go-shop-orders/internal/users"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Fatalf("%v", err)
	}

	catalogRepo := &catalog.Repo{DB: db}
	userRepo := &users.Repo{DB: db}

	// Notifications go through Kafka when brokers are set, otherwise they
	// are delivered in the request, once.
	var (
		notifier orders.Notifier
		prod     *kafkax.Producer
	)
	if cfg.KafkaEnabled() {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicNotifications, 1024, logger)
		prod.Start()
		notifier = &notify.Publisher{Producer: prod, Service: cfg.ServiceName}
	} else {
		mailer, err := notify.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			log.Fatalf("smtp: %v", err)
		}
		notifier = &notify.Inline{Dispatcher: &notify.Dispatcher{
			Users:       userRepo,
			Products:    catalogRepo,
			Mailer:      mailer,
			SellerEmail: cfg.SellerEmail,
			MaxAttempts: 1,
			Log:         logger,
		}}
		log.Printf("KAFKA_BROKERS empty, delivering notifications inline")
	}

	engine := &orders.Engine{
		Store:    &orders.Repo{DB: db},
		Ledger:   catalogRepo,
		Notifier: notifier,
		Metrics:  metrics.NewWorkflow(prometheus.DefaultRegisterer),
		Log:      logger,
	}
	api := &httpx.Server{
		Orders:   engine,
		Catalog:  catalogRepo,
		Carts:    &cart.Service{Redis: rdb, TTL: cfg.CartTTL},
		Accounts: &users.Service{Repo: userRepo, Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL},
		Metrics:  metrics.NewServerMetrics(prometheus.DefaultRegisterer, "api"),
	}

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // flush inbox, then close writer
	}
	cancel()
}
