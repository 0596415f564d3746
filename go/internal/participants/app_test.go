package participants

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/calisnet/engine/go/internal/competitions"
	"github.com/calisnet/engine/go/internal/events"
	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type pairKey struct {
	competitionID uuid.UUID
	userID        uuid.UUID
}

// fakeStore backs the ledger in tests. CreateParticipant applies the same
// check-and-insert discipline under a mutex that the Postgres repository
// applies under a row lock.
type fakeStore struct {
	mu           sync.Mutex
	competitions map[uuid.UUID]*models.Competition
	participants map[pairKey]models.Participant
	cancelled    []events.CompetitionCancelledPayload
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		competitions: make(map[uuid.UUID]*models.Competition),
		participants: make(map[pairKey]models.Participant),
	}
}

func (f *fakeStore) addCompetition(organizerID uuid.UUID, status models.CompetitionStatus, limit int) uuid.UUID {
	id := uuid.New()
	f.competitions[id] = &models.Competition{
		ID:               id,
		OrganizerID:      organizerID,
		Name:             "Street Workout Open",
		ParticipantLimit: limit,
		PenaltyTime:      30,
		Status:           status,
	}
	return id
}

func (f *fakeStore) CreateParticipant(ctx context.Context, competitionID, userID uuid.UUID, joinedAt time.Time) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	competition, ok := f.competitions[competitionID]
	if !ok {
		return nil, competitions.ErrNotFound
	}
	if competition.Status != models.CompetitionStatusOpen {
		return nil, ErrNotOpen
	}
	if _, exists := f.participants[pairKey{competitionID, userID}]; exists {
		return nil, ErrAlreadyJoined
	}
	if competition.ParticipantLimit > 0 {
		count := 0
		for key := range f.participants {
			if key.competitionID == competitionID {
				count++
			}
		}
		if count >= competition.ParticipantLimit {
			return nil, ErrCapacityExceeded
		}
	}

	p := models.Participant{CompetitionID: competitionID, UserID: userID, JoinedAt: joinedAt}
	f.participants[pairKey{competitionID, userID}] = p
	return &p, nil
}

func (f *fakeStore) DeleteParticipant(ctx context.Context, competitionID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{competitionID, userID}
	if _, ok := f.participants[key]; !ok {
		return ErrNotParticipant
	}
	delete(f.participants, key)
	return nil
}

func (f *fakeStore) CancelCompetition(ctx context.Context, competitionID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	competition, ok := f.competitions[competitionID]
	if !ok {
		return competitions.ErrNotFound
	}
	competition.Status = models.CompetitionStatusCancelled
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, competitionID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.participants[pairKey{competitionID, userID}]
	return ok, nil
}

func (f *fakeStore) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Participant
	for key, p := range f.participants {
		if key.competitionID == competitionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Participant
	for key, p := range f.participants {
		if key.userID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	competition, ok := f.competitions[id]
	if !ok {
		return nil, competitions.ErrNotFound
	}
	copied := *competition
	return &copied, nil
}

func (f *fakeStore) RecordCompetitionCancelled(ctx context.Context, payload events.CompetitionCancelledPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, payload)
	return nil
}

func newLedger(store *fakeStore) *App {
	return NewApp(store, store, store, clockwork.NewFakeClock())
}

func TestJoinTwiceFailsWithAlreadyJoined(t *testing.T) {
	store := newFakeStore()
	competitionID := store.addCompetition(uuid.New(), models.CompetitionStatusOpen, 0)
	app := newLedger(store)
	userID := uuid.New()

	if _, err := app.Join(context.Background(), competitionID, userID); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if _, err := app.Join(context.Background(), competitionID, userID); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("second join error = %v, want ErrAlreadyJoined", err)
	}
}

func TestJoinNotOpen(t *testing.T) {
	store := newFakeStore()
	competitionID := store.addCompetition(uuid.New(), models.CompetitionStatusStarted, 0)
	app := newLedger(store)

	if _, err := app.Join(context.Background(), competitionID, uuid.New()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("join error = %v, want ErrNotOpen", err)
	}
}

func TestJoinAtCapacityThenLeaveFreesSlot(t *testing.T) {
	store := newFakeStore()
	competitionID := store.addCompetition(uuid.New(), models.CompetitionStatusOpen, 2)
	app := newLedger(store)

	first, second := uuid.New(), uuid.New()
	for _, userID := range []uuid.UUID{first, second} {
		if _, err := app.Join(context.Background(), competitionID, userID); err != nil {
			t.Fatalf("join failed: %v", err)
		}
	}

	late := uuid.New()
	if _, err := app.Join(context.Background(), competitionID, late); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("join at capacity error = %v, want ErrCapacityExceeded", err)
	}

	if err := app.Leave(context.Background(), competitionID, first); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if _, err := app.Join(context.Background(), competitionID, late); err != nil {
		t.Fatalf("join after a slot freed failed: %v", err)
	}
}

func TestLeaveWithoutJoining(t *testing.T) {
	store := newFakeStore()
	competitionID := store.addCompetition(uuid.New(), models.CompetitionStatusOpen, 0)
	app := newLedger(store)

	if err := app.Leave(context.Background(), competitionID, uuid.New()); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("leave error = %v, want ErrNotParticipant", err)
	}
}

func TestConcurrentJoinsAtLastSlot(t *testing.T) {
	store := newFakeStore()
	competitionID := store.addCompetition(uuid.New(), models.CompetitionStatusOpen, 3)
	app := newLedger(store)

	for i := 0; i < 2; i++ {
		if _, err := app.Join(context.Background(), competitionID, uuid.New()); err != nil {
			t.Fatalf("setup join failed: %v", err)
		}
	}

	// One slot left, two simultaneous callers.
	errs := make(chan error, 2)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := app.Join(context.Background(), competitionID, uuid.New())
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var admitted, rejected int
	for err := range errs {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}
	if admitted != 1 || rejected != 1 {
		t.Fatalf("admitted=%d rejected=%d, want exactly one of each", admitted, rejected)
	}
}

func TestCancelByOrganizerNotifiesParticipants(t *testing.T) {
	store := newFakeStore()
	organizerID := uuid.New()
	competitionID := store.addCompetition(organizerID, models.CompetitionStatusStarted, 0)
	app := newLedger(store)

	store.competitions[competitionID].Status = models.CompetitionStatusOpen
	joined := []uuid.UUID{uuid.New(), uuid.New()}
	for _, userID := range joined {
		if _, err := app.Join(context.Background(), competitionID, userID); err != nil {
			t.Fatalf("join failed: %v", err)
		}
	}

	if err := app.Cancel(context.Background(), competitionID, organizerID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	competition, _ := store.GetCompetition(context.Background(), competitionID)
	if competition.Status != models.CompetitionStatusCancelled {
		t.Fatalf("status = %s, want Cancelled", competition.Status)
	}
	if len(store.cancelled) != 1 {
		t.Fatalf("recorded %d cancellation events, want 1", len(store.cancelled))
	}
	if got := len(store.cancelled[0].ParticipantIDs); got != len(joined) {
		t.Fatalf("cancellation payload lists %d participants, want %d", got, len(joined))
	}
}

func TestCancelRules(t *testing.T) {
	organizerID := uuid.New()

	t.Run("non-organizer", func(t *testing.T) {
		store := newFakeStore()
		competitionID := store.addCompetition(organizerID, models.CompetitionStatusOpen, 0)
		app := newLedger(store)
		if err := app.Cancel(context.Background(), competitionID, uuid.New()); !errors.Is(err, ErrNotOrganizer) {
			t.Fatalf("cancel error = %v, want ErrNotOrganizer", err)
		}
	})

	t.Run("finished", func(t *testing.T) {
		store := newFakeStore()
		competitionID := store.addCompetition(organizerID, models.CompetitionStatusFinished, 0)
		app := newLedger(store)
		if err := app.Cancel(context.Background(), competitionID, organizerID); !errors.Is(err, ErrFinished) {
			t.Fatalf("cancel error = %v, want ErrFinished", err)
		}
	})

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		store := newFakeStore()
		competitionID := store.addCompetition(organizerID, models.CompetitionStatusCancelled, 0)
		app := newLedger(store)
		if err := app.Cancel(context.Background(), competitionID, organizerID); err != nil {
			t.Fatalf("cancel error = %v, want nil", err)
		}
		if len(store.cancelled) != 0 {
			t.Fatal("no-op cancel recorded an event")
		}
	})

	t.Run("started can be cancelled", func(t *testing.T) {
		store := newFakeStore()
		competitionID := store.addCompetition(organizerID, models.CompetitionStatusStarted, 0)
		app := newLedger(store)
		if err := app.Cancel(context.Background(), competitionID, organizerID); err != nil {
			t.Fatalf("cancel error = %v, want nil", err)
		}
	})
}

func TestLeaveKeepsResultHistory(t *testing.T) {
	// The ledger never touches result rows; leaving only removes the
	// participant row, so a snapshot taken before leave is unchanged after.
	store := newFakeStore()
	competitionID := store.addCompetition(uuid.New(), models.CompetitionStatusOpen, 1)
	app := newLedger(store)
	userID := uuid.New()

	if _, err := app.Join(context.Background(), competitionID, userID); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := app.Leave(context.Background(), competitionID, userID); err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	// Slot freed for someone else.
	if _, err := app.Join(context.Background(), competitionID, uuid.New()); err != nil {
		t.Fatalf("join after leave failed: %v", err)
	}
}
