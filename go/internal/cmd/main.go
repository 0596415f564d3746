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

	"github.com/calisnet/engine/go/internal/gateway"
	"github.com/calisnet/engine/go/internal/outbox"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := setupDatabase(ctx)
	if err != nil {
		log.Fatalf("Failed to setup database: %v", err)
	}
	defer pool.Close()

	services := setupServices(pool, config)

	// Outbox relay
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	worker, natsConn, closePublisher, err := setupOutboxWorker(services.Outbox, config, logger)
	if err != nil {
		log.Fatalf("Failed to setup outbox worker: %v", err)
	}
	defer closePublisher()

	if err := worker.Start(ctx); err != nil {
		log.Fatalf("Failed to start outbox worker: %v", err)
	}
	defer worker.Stop()

	outboxHealth := outbox.NewHealthChecker(worker, services.Outbox, pool, natsConn, 5*time.Minute)

	// Live standings gateway
	wsHandler := setupGateway(ctx, config)

	server := setupServer(services, wsHandler, outboxHealth)

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func setupOutboxWorker(repo *outbox.Repository, config *Config, logger *slog.Logger) (*outbox.Worker, *nats.Conn, func(), error) {
	cfg := outbox.DefaultConfig()
	if config.Outbox.PollInterval > 0 {
		cfg.PollInterval = config.Outbox.PollInterval
	}
	if config.Outbox.BatchSize > 0 {
		cfg.BatchSize = config.Outbox.BatchSize
	}

	var (
		publisher outbox.EventPublisher
		natsConn  *nats.Conn
		closeFn   = func() {}
	)
	if config.NATS.Enabled {
		jsCfg := outbox.DefaultJetStreamConfig()
		if config.NATS.URL != "" {
			jsCfg.URL = config.NATS.URL
		}
		js, err := outbox.NewJetStreamPublisher(jsCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		publisher = js
		natsConn = js.Conn()
		closeFn = func() { js.Close() }
	} else {
		publisher = outbox.NewLogPublisher(logger)
	}

	return outbox.NewWorker(repo, publisher, cfg, logger, clockwork.NewRealClock()), natsConn, closeFn, nil
}

// setupGateway starts the WebSocket fan-out when a broker is configured.
// Without NATS there is nothing to consume, so the endpoints stay off.
func setupGateway(ctx context.Context, config *Config) *gateway.WebSocketHandler {
	if !config.NATS.Enabled {
		return nil
	}

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go cm.Start(ctx)

	consumerCfg := gateway.DefaultJetStreamConsumerConfig()
	if config.NATS.URL != "" {
		consumerCfg.URL = config.NATS.URL
	}

	consumer, err := gateway.NewEventConsumer(cm, consumerCfg)
	if err != nil {
		log.Fatalf("Failed to setup gateway consumer: %v", err)
	}
	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Printf("Gateway consumer stopped: %v", err)
		}
	}()

	return gateway.NewWebSocketHandler(cm)
}
