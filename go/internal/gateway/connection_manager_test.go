package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calisnet/engine/go/internal/events"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func dialStandings(t *testing.T, server *httptest.Server, competitionID uuid.UUID) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/standings?competition_id=" + competitionID.String()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func startGateway(t *testing.T) (*ConnectionManager, *httptest.Server) {
	t.Helper()

	cm := NewConnectionManager(DefaultConnectionConfig())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go cm.Start(ctx)

	mux := http.NewServeMux()
	NewWebSocketHandler(cm).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return cm, server
}

func TestBroadcastReachesCompetitionSubscribers(t *testing.T) {
	cm, server := startGateway(t)
	competitionID := uuid.New()
	otherID := uuid.New()

	subscriber := dialStandings(t, server, competitionID)
	bystander := dialStandings(t, server, otherID)

	payload, _ := json.Marshal(events.StandingsUpdatedPayload{
		CompetitionID: competitionID,
		UpdatedAt:     time.Now(),
	})
	event := &CompetitionEvent{
		ID:            uuid.New().String(),
		CompetitionID: competitionID.String(),
		Type:          EventTypeStandingsUpdated,
		Timestamp:     time.Now(),
		Data:          payload,
	}

	// Registration happens in the upgrade handler; give it a moment
	deadline := time.Now().Add(2 * time.Second)
	for cm.GetStats().TotalConnections < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	cm.BroadcastToCompetition(competitionID, event)

	subscriber.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := subscriber.ReadMessage()
	if err != nil {
		t.Fatalf("subscriber never received event: %v", err)
	}

	var received CompetitionEvent
	if err := json.Unmarshal(frame, &received); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	if received.Type != EventTypeStandingsUpdated {
		t.Errorf("event type = %s, want %s", received.Type, EventTypeStandingsUpdated)
	}
	if received.CompetitionID != competitionID.String() {
		t.Errorf("competition id = %s, want %s", received.CompetitionID, competitionID)
	}

	bystander.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := bystander.ReadMessage(); err == nil {
		t.Error("bystander subscribed to another competition received the event")
	}
}

func TestStandingsConnectionValidation(t *testing.T) {
	_, server := startGateway(t)

	resp, err := http.Get(server.URL + "/ws/standings")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing competition_id: status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/ws/standings?competition_id=not-a-uuid")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad competition_id: status = %d, want 400", resp.StatusCode)
	}
}

func TestConnectionStats(t *testing.T) {
	cm, server := startGateway(t)
	competitionID := uuid.New()

	dialStandings(t, server, competitionID)

	deadline := time.Now().Add(2 * time.Second)
	for cm.GetStats().TotalConnections < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get(server.URL + "/ws/stats")
	if err != nil {
		t.Fatalf("stats request failed: %v", err)
	}
	defer resp.Body.Close()

	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats.TotalConnections != 1 || stats.ActiveCompetitions != 1 {
		t.Errorf("stats = %+v, want one connection on one competition", stats)
	}
}

func TestParseEventPayload(t *testing.T) {
	competitionID := uuid.New()
	payload, _ := json.Marshal(events.CompetitionCancelledPayload{
		CompetitionID:   competitionID,
		CompetitionName: "Rings of Steel",
	})

	parsed, err := ParseEventPayload(&CompetitionEvent{
		Type: EventTypeCompetitionCancelled,
		Data: payload,
	})
	if err != nil {
		t.Fatalf("ParseEventPayload failed: %v", err)
	}
	cancelled, ok := parsed.(events.CompetitionCancelledPayload)
	if !ok || cancelled.CompetitionID != competitionID {
		t.Errorf("parsed = %#v, want CompetitionCancelledPayload for %s", parsed, competitionID)
	}

	if _, err := ParseEventPayload(&CompetitionEvent{Type: "Bogus"}); err == nil {
		t.Error("unknown event type should error")
	}
}
