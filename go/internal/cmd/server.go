package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/calisnet/engine/go/internal/gateway"
	"github.com/calisnet/engine/go/internal/outbox"
	"github.com/rs/cors"
)

func setupServer(services *Services, wsHandler *gateway.WebSocketHandler, outboxHealth *outbox.HealthChecker) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	registerServices(mux, services)

	if wsHandler != nil {
		wsHandler.RegisterRoutes(mux)
	}

	setupHealthCheck(mux)
	if outboxHealth != nil {
		mux.Handle("/health/outbox", outboxHealth)
	}

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler: c.Handler(mux),
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	services.Users.RegisterRoutes(mux)
	services.Competitions.RegisterRoutes(mux)
	services.Exercises.RegisterRoutes(mux)
	services.Participants.RegisterRoutes(mux)
	services.Results.RegisterRoutes(mux)
	services.Views.RegisterRoutes(mux)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("Failed to write health check response: %v", err)
		}
	})
}
