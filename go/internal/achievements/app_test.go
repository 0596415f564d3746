package achievements

import (
	"context"
	"testing"
	"time"

	"github.com/calisnet/engine/go/internal/competitions"
	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

type fakeHistorySource struct {
	participations []models.Participant
	results        []models.Result
	competitions   map[uuid.UUID]models.Competition
}

func (f *fakeHistorySource) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error) {
	var out []models.Participant
	for _, p := range f.participations {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeHistorySource) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]models.Result, error) {
	var out []models.Result
	for _, r := range f.results {
		if r.ParticipantID == participantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHistorySource) GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	competition, ok := f.competitions[id]
	if !ok {
		return nil, competitions.ErrNotFound
	}
	return &competition, nil
}

func (f *fakeHistorySource) addCompetition(date time.Time) uuid.UUID {
	id := uuid.New()
	f.competitions[id] = models.Competition{
		ID:     id,
		Name:   "Comp " + date.Format("2006-01-02"),
		Date:   date,
		Status: models.CompetitionStatusFinished,
	}
	return id
}

func (f *fakeHistorySource) addFinish(userID, competitionID uuid.UUID, rank int) {
	f.participations = append(f.participations, models.Participant{
		CompetitionID: competitionID,
		UserID:        userID,
	})
	f.results = append(f.results, models.Result{
		CompetitionID: competitionID,
		ParticipantID: userID,
		ResultTime:    600 + rank,
		Rank:          rank,
	})
}

func newFakeHistorySource() *fakeHistorySource {
	return &fakeHistorySource{competitions: make(map[uuid.UUID]models.Competition)}
}

func day(offset int) time.Time {
	return time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestAchievementsPodiumOnlyDescending(t *testing.T) {
	source := newFakeHistorySource()
	app := NewApp(source, source, source)
	userID := uuid.New()

	// Three podium finishes and two non-podium finishes across five dates.
	podiumDates := []time.Time{day(0), day(10), day(20)}
	source.addFinish(userID, source.addCompetition(podiumDates[1]), 1)
	source.addFinish(userID, source.addCompetition(day(5)), 4)
	source.addFinish(userID, source.addCompetition(podiumDates[2]), 3)
	source.addFinish(userID, source.addCompetition(podiumDates[0]), 2)
	source.addFinish(userID, source.addCompetition(day(15)), 7)

	achievements, err := app.Achievements(context.Background(), userID)
	if err != nil {
		t.Fatalf("Achievements failed: %v", err)
	}

	if len(achievements) != 3 {
		t.Fatalf("got %d achievements, want 3", len(achievements))
	}
	wantDates := []time.Time{podiumDates[2], podiumDates[1], podiumDates[0]}
	for i, entry := range achievements {
		if !entry.Competition.Date.Equal(wantDates[i]) {
			t.Errorf("achievement %d date = %v, want %v", i, entry.Competition.Date, wantDates[i])
		}
		if entry.Result == nil || entry.Result.Rank > PodiumRank {
			t.Errorf("achievement %d is not a podium finish: %+v", i, entry.Result)
		}
	}
}

func TestHistoryIncludesResultlessParticipations(t *testing.T) {
	source := newFakeHistorySource()
	app := NewApp(source, source, source)
	userID := uuid.New()

	joinedOnly := source.addCompetition(day(1))
	source.participations = append(source.participations, models.Participant{
		CompetitionID: joinedOnly,
		UserID:        userID,
	})
	source.addFinish(userID, source.addCompetition(day(2)), 5)

	history, err := app.History(context.Background(), userID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d history entries, want 2", len(history))
	}
	// day(2) entry first (more recent), then the result-less join.
	if history[0].Result == nil {
		t.Fatal("entry with a result should sort first by date")
	}
	if history[1].Result != nil {
		t.Fatal("joined-only entry should carry no result")
	}
}

func TestHistoryKeepsResultsAfterLeaving(t *testing.T) {
	source := newFakeHistorySource()
	app := NewApp(source, source, source)
	userID := uuid.New()

	// Result retained as historical record; no participation row remains.
	left := source.addCompetition(day(3))
	source.results = append(source.results, models.Result{
		CompetitionID: left,
		ParticipantID: userID,
		ResultTime:    540,
		Rank:          1,
	})

	history, err := app.History(context.Background(), userID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d history entries, want 1", len(history))
	}

	achievements, err := app.Achievements(context.Background(), userID)
	if err != nil {
		t.Fatalf("Achievements failed: %v", err)
	}
	if len(achievements) != 1 {
		t.Fatalf("got %d achievements, want 1", len(achievements))
	}
}

func TestEmptyHistory(t *testing.T) {
	source := newFakeHistorySource()
	app := NewApp(source, source, source)

	history, err := app.History(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("got %d history entries, want 0", len(history))
	}

	achievements, err := app.Achievements(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Achievements failed: %v", err)
	}
	if len(achievements) != 0 {
		t.Fatalf("got %d achievements, want 0", len(achievements))
	}
}
