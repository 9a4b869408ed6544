package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/config"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/messaging"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/search"
	"github.com/oksasatya/go-webinar-scheduler/pkg/helpers"
)

// webinar_worker projects webinar events from RabbitMQ into Elasticsearch.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQWebinarQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 || cfg.ESWebinarsIndex == "" {
		logger.Fatal("Elasticsearch not configured")
	}

	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Fatal("es client")
	}
	index := search.NewWebinarIndex(es, cfg.ESWebinarsIndex, logger)

	handle := func(ctx context.Context, ev repository.WebinarEvent) error {
		if err := index.Put(ctx, ev); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"event":      ev.Type,
			"webinar_id": ev.WebinarID,
			"version":    ev.Version,
		}).Debug("webinar indexed")
		return nil
	}

	consumer, err := messaging.NewConsumer(cfg.RabbitMQURL, cfg.RabbitMQWebinarQueue, cfg.RabbitMQPrefetch, handle, logger)
	if err != nil {
		logger.WithError(err).Fatal("rabbitmq consumer")
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithField("queue", cfg.RabbitMQWebinarQueue).Info("webinar worker listening")
	if err := consumer.Run(ctx); err != nil {
		logger.WithError(err).Error("consumer stopped")
		return
	}
	logger.Info("webinar worker stopped")
}
