package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"affiliatebot/internal/config"
	"affiliatebot/internal/observability"
	"affiliatebot/internal/poster"
	"affiliatebot/internal/queue"
)

// go run cmd/poster/main.go -webhook=https://hooks.example.com/social
func main() {
	webhook := flag.String("webhook", "", "Webhook URL to deliver posts to (logs posts when empty)")
	flag.Parse()

	cfg := config.Load()

	log.Println("Starting social posting scheduler...")

	observability.Start(cfg.MetricsPort)

	postQueue, err := queue.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open post queue: %v", err)
	}
	defer postQueue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postQueue.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize post queue: %v", err)
	}

	pending, err := postQueue.Pending(ctx)
	if err != nil {
		log.Fatalf("Failed to count pending posts: %v", err)
	}
	log.Printf("%d posts pending", pending)

	var publisher poster.Publisher = poster.LogPublisher{}
	if *webhook != "" {
		publisher = poster.NewWebhookPublisher(*webhook)
	}

	poster.New(postQueue, publisher, cfg.PostsPerDay).Run(ctx)
}
