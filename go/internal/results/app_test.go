package results

import (
	"context"
	"errors"
	"testing"

	"github.com/calisnet/engine/go/internal/competitions"
	"github.com/calisnet/engine/go/internal/events"
	"github.com/calisnet/engine/go/internal/models"
	"github.com/calisnet/engine/go/internal/timefmt"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type resultKey struct {
	competitionID uuid.UUID
	participantID uuid.UUID
}

type fakeResultStore struct {
	competition  *models.Competition
	participants map[uuid.UUID]bool
	usernames    map[uuid.UUID]string
	results      map[resultKey]models.Result
	updates      []events.StandingsUpdatedPayload
}

func newFakeResultStore(organizerID uuid.UUID, penaltyUnit int) *fakeResultStore {
	return &fakeResultStore{
		competition: &models.Competition{
			ID:          uuid.New(),
			OrganizerID: organizerID,
			Name:        "Beach Bars Throwdown",
			PenaltyTime: penaltyUnit,
			Status:      models.CompetitionStatusStarted,
		},
		participants: make(map[uuid.UUID]bool),
		usernames:    make(map[uuid.UUID]string),
		results:      make(map[resultKey]models.Result),
	}
}

func (f *fakeResultStore) UpsertResult(ctx context.Context, result models.Result) (*models.Result, error) {
	f.results[resultKey{result.CompetitionID, result.ParticipantID}] = result
	return &result, nil
}

func (f *fakeResultStore) DeleteResult(ctx context.Context, competitionID, participantID uuid.UUID) error {
	key := resultKey{competitionID, participantID}
	if _, ok := f.results[key]; !ok {
		return ErrNotFound
	}
	delete(f.results, key)
	return nil
}

func (f *fakeResultStore) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Result, error) {
	var out []models.Result
	for key, r := range f.results {
		if key.competitionID == competitionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultStore) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]models.Result, error) {
	var out []models.Result
	for key, r := range f.results {
		if key.participantID == participantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultStore) SaveRanks(ctx context.Context, competitionID uuid.UUID, ranks map[uuid.UUID]int) error {
	for participantID, rank := range ranks {
		key := resultKey{competitionID, participantID}
		if r, ok := f.results[key]; ok {
			r.Rank = rank
			f.results[key] = r
		}
	}
	return nil
}

func (f *fakeResultStore) GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	if id != f.competition.ID {
		return nil, competitions.ErrNotFound
	}
	copied := *f.competition
	return &copied, nil
}

func (f *fakeResultStore) Exists(ctx context.Context, competitionID, userID uuid.UUID) (bool, error) {
	return f.participants[userID], nil
}

func (f *fakeResultStore) RecordStandingsUpdated(ctx context.Context, payload events.StandingsUpdatedPayload) error {
	f.updates = append(f.updates, payload)
	return nil
}

func (f *fakeResultStore) UsernamesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	usernames := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if name, ok := f.usernames[id]; ok {
			usernames[id] = name
		}
	}
	return usernames, nil
}

func newResultsApp(store *fakeResultStore) *App {
	return NewApp(store, store, store, store, store, clockwork.NewFakeClock())
}

func TestSubmitResultRequiresParticipant(t *testing.T) {
	organizerID := uuid.New()
	store := newFakeResultStore(organizerID, 30)
	app := newResultsApp(store)

	_, err := app.SubmitResult(context.Background(), store.competition.ID, organizerID, SubmitResultRequest{
		ParticipantID: uuid.New(),
		ResultTime:    "10:00",
	})
	if !errors.Is(err, ErrNoParticipant) {
		t.Fatalf("submit error = %v, want ErrNoParticipant", err)
	}
}

func TestSubmitResultOrganizerOnly(t *testing.T) {
	store := newFakeResultStore(uuid.New(), 30)
	app := newResultsApp(store)
	participantID := uuid.New()
	store.participants[participantID] = true

	_, err := app.SubmitResult(context.Background(), store.competition.ID, uuid.New(), SubmitResultRequest{
		ParticipantID: participantID,
		ResultTime:    "10:00",
	})
	if !errors.Is(err, ErrNotOrganizer) {
		t.Fatalf("submit error = %v, want ErrNotOrganizer", err)
	}
}

func TestSubmitResultRejectsBadTime(t *testing.T) {
	organizerID := uuid.New()
	store := newFakeResultStore(organizerID, 30)
	app := newResultsApp(store)
	participantID := uuid.New()
	store.participants[participantID] = true

	_, err := app.SubmitResult(context.Background(), store.competition.ID, organizerID, SubmitResultRequest{
		ParticipantID: participantID,
		ResultTime:    "not-a-time",
	})
	if !errors.Is(err, timefmt.ErrFormat) {
		t.Fatalf("submit error = %v, want timefmt.ErrFormat", err)
	}
}

func TestSubmitResultRecomputesRanks(t *testing.T) {
	organizerID := uuid.New()
	store := newFakeResultStore(organizerID, 30)
	app := newResultsApp(store)

	fast, slow := uuid.New(), uuid.New()
	store.participants[fast] = true
	store.participants[slow] = true

	// slow first: raw 11:00, no penalties -> 660s
	first, err := app.SubmitResult(context.Background(), store.competition.ID, organizerID, SubmitResultRequest{
		ParticipantID: slow,
		ResultTime:    "11:00",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if first.Rank != 1 {
		t.Fatalf("sole result rank = %d, want 1", first.Rank)
	}

	// fast second: raw 10:00 + 1 penalty * 30s = 630s, takes rank 1
	second, err := app.SubmitResult(context.Background(), store.competition.ID, organizerID, SubmitResultRequest{
		ParticipantID: fast,
		ResultTime:    "0:10:00",
		Penalties:     1,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if second.Rank != 1 {
		t.Fatalf("faster result rank = %d, want 1", second.Rank)
	}

	stored := store.results[resultKey{store.competition.ID, slow}]
	if stored.Rank != 2 {
		t.Fatalf("displaced result rank = %d, want 2", stored.Rank)
	}

	if len(store.updates) != 2 {
		t.Fatalf("recorded %d standings updates, want 2", len(store.updates))
	}
	last := store.updates[len(store.updates)-1]
	if len(last.Standings) != 2 {
		t.Fatalf("last update carries %d standings, want 2", len(last.Standings))
	}
}

func TestDeleteResultRefreshesRemaining(t *testing.T) {
	organizerID := uuid.New()
	store := newFakeResultStore(organizerID, 0)
	app := newResultsApp(store)

	winner, runnerUp := uuid.New(), uuid.New()
	store.participants[winner] = true
	store.participants[runnerUp] = true

	for _, submit := range []struct {
		id   uuid.UUID
		time string
	}{{winner, "9:00"}, {runnerUp, "9:30"}} {
		if _, err := app.SubmitResult(context.Background(), store.competition.ID, organizerID, SubmitResultRequest{
			ParticipantID: submit.id,
			ResultTime:    submit.time,
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	if err := app.DeleteResult(context.Background(), store.competition.ID, organizerID, winner); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	remaining := store.results[resultKey{store.competition.ID, runnerUp}]
	if remaining.Rank != 1 {
		t.Fatalf("remaining result rank = %d, want 1 after leader removed", remaining.Rank)
	}
}

func TestDeleteResultMissing(t *testing.T) {
	organizerID := uuid.New()
	store := newFakeResultStore(organizerID, 0)
	app := newResultsApp(store)

	err := app.DeleteResult(context.Background(), store.competition.ID, organizerID, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete error = %v, want ErrNotFound", err)
	}
}

func TestScoreboardJoinsUsernames(t *testing.T) {
	organizerID := uuid.New()
	store := newFakeResultStore(organizerID, 0)
	app := newResultsApp(store)

	named, unnamed := uuid.New(), uuid.New()
	store.participants[named] = true
	store.participants[unnamed] = true
	store.usernames[named] = "bar_athlete"

	for _, submit := range []struct {
		id   uuid.UUID
		time string
	}{{named, "8:00"}, {unnamed, "8:30"}} {
		if _, err := app.SubmitResult(context.Background(), store.competition.ID, organizerID, SubmitResultRequest{
			ParticipantID: submit.id,
			ResultTime:    submit.time,
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	entries, err := app.ScoreboardFor(context.Background(), store.competition.ID)
	if err != nil {
		t.Fatalf("scoreboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("scoreboard has %d entries, want 2", len(entries))
	}

	if entries[0].ParticipantID != named || entries[0].Username != "bar_athlete" {
		t.Fatalf("leader = %s %q, want %s %q", entries[0].ParticipantID, entries[0].Username, named, "bar_athlete")
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("ranks = %d, %d, want 1, 2", entries[0].Rank, entries[1].Rank)
	}
	// No local account resolves to an empty display name, not an error.
	if entries[1].Username != "" {
		t.Fatalf("unnamed entry username = %q, want empty", entries[1].Username)
	}
}
