package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/ariefcatur/go-shop-orders/internal/config"
	kafkax "github.com/ariefcatur/go-shop-orders/internal/kafka"
	"github.com/ariefcatur/go-shop-orders/internal/notify"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/ariefcatur/go-shop-orders/internal/postgres"
	"github.com/ariefcatur/go-shop-orders/internal/redisx"
	"github.com/ariefcatur/go-shop-orders/internal/users"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	service := cfg.ServiceName + "-notifier"
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", service)
	slog.SetDefault(logger)

	if !cfg.KafkaEnabled() {
		log.Fatal("KAFKA_BROKERS is required for the notifier")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	mailer, err := notify.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatalf("smtp: %v", err)
	}

	d := &notify.Dispatcher{
		Users:       &users.Repo{DB: db},
		Products:    &catalog.Repo{DB: db},
		Mailer:      mailer,
		SellerEmail: cfg.SellerEmail,
		MaxAttempts: cfg.NotifyMaxAttempts,
		BaseBackoff: cfg.NotifyBaseBackoff,
		Redis:       rdb,
		Service:     service,
		Log:         logger,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifyGroup, orders.TopicNotifications, cfg.NotifyWorkers, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", cfg.NotifyGroup, orders.TopicNotifications, cfg.NotifyWorkers)
		if err := cons.Start(ctx, d.HandleMessage); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
	<-done
}
