package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
)

type HealthStatus struct {
	Healthy           bool       `json:"healthy"`
	LastEventTime     *time.Time `json:"last_event_time,omitempty"`
	EventsProcessed   uint64     `json:"events_processed"`
	PendingEvents     int        `json:"pending_events"`
	DatabaseConnected bool       `json:"database_connected"`
	NATSConnected     bool       `json:"nats_connected"`
	WorkerActive      bool       `json:"worker_active"`
	Errors            []string   `json:"errors"`
}

// HealthChecker reports whether the outbox relay is keeping up.
type HealthChecker struct {
	worker    *Worker
	repo      *Repository
	pool      *pgxpool.Pool
	natsConn  *nats.Conn
	threshold time.Duration // how long events may sit pending before unhealthy
}

func NewHealthChecker(worker *Worker, repo *Repository, pool *pgxpool.Pool, natsConn *nats.Conn, threshold time.Duration) *HealthChecker {
	return &HealthChecker{
		worker:    worker,
		repo:      repo,
		pool:      pool,
		natsConn:  natsConn,
		threshold: threshold,
	}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Errors:  []string{},
	}

	processed, lastTime := h.worker.Stats()
	status.EventsProcessed = processed
	if !lastTime.IsZero() {
		status.LastEventTime = &lastTime
	}

	if err := h.pool.Ping(ctx); err != nil {
		status.DatabaseConnected = false
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("database ping failed: %v", err))
	} else {
		status.DatabaseConnected = true
	}

	if h.natsConn != nil {
		status.NATSConnected = h.natsConn.IsConnected()
		if !status.NATSConnected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}

	status.WorkerActive = h.worker.Running()
	if !status.WorkerActive {
		status.Healthy = false
		status.Errors = append(status.Errors, "worker not active")
	}

	if status.DatabaseConnected {
		pending, err := h.repo.CountPending(ctx)
		if err != nil {
			status.Errors = append(status.Errors, fmt.Sprintf("failed to count pending events: %v", err))
		} else {
			status.PendingEvents = pending
			if pending > 1000 {
				status.Errors = append(status.Errors, fmt.Sprintf("high pending event count: %d", pending))
			}
		}
	}

	if status.PendingEvents > 0 && status.LastEventTime != nil {
		sinceLast := time.Since(*status.LastEventTime)
		if sinceLast > h.threshold {
			status.Healthy = false
			status.Errors = append(status.Errors, fmt.Sprintf("no events delivered for %s", sinceLast))
		}
	}

	return status
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}
