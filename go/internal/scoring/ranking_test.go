package scoring

import (
	"testing"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestRankEmpty(t *testing.T) {
	got := Rank(nil)
	if len(got) != 0 {
		t.Fatalf("Rank(nil) = %v, want empty map", got)
	}
}

func TestRankSingle(t *testing.T) {
	a := uuid.New()
	got := Rank([]Entry{{ParticipantID: a, FinalTime: 5}})
	want := map[uuid.UUID]int{a: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Rank mismatch (-want +got):\n%s", diff)
	}
}

func TestRankTiesShareLowerRank(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	got := Rank([]Entry{
		{ParticipantID: a, FinalTime: 10},
		{ParticipantID: b, FinalTime: 10},
		{ParticipantID: c, FinalTime: 12},
	})
	want := map[uuid.UUID]int{a: 1, b: 1, c: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Rank mismatch (-want +got):\n%s", diff)
	}
}

func TestRankAllTied(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i] = Entry{ParticipantID: id, FinalTime: 300}
	}
	got := Rank(entries)
	for _, id := range ids {
		if got[id] != 1 {
			t.Fatalf("all-tied ranks = %v, want all 1", got)
		}
	}
}

func TestRankSkipsAfterTie(t *testing.T) {
	a, b, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	got := Rank([]Entry{
		{ParticipantID: a, FinalTime: 100},
		{ParticipantID: b, FinalTime: 90},
		{ParticipantID: c, FinalTime: 90},
		{ParticipantID: d, FinalTime: 90},
		{ParticipantID: e, FinalTime: 95},
	})
	want := map[uuid.UUID]int{b: 1, c: 1, d: 1, e: 4, a: 5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Rank mismatch (-want +got):\n%s", diff)
	}
}

func TestRankInputUnmodified(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	entries := []Entry{
		{ParticipantID: a, FinalTime: 20},
		{ParticipantID: b, FinalTime: 10},
	}
	Rank(entries)
	if entries[0].ParticipantID != a || entries[1].ParticipantID != b {
		t.Fatal("Rank reordered its input slice")
	}
}

func TestStandings(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	competitionID := uuid.New()
	results := []models.Result{
		{CompetitionID: competitionID, ParticipantID: a, ResultTime: 600, Penalties: 2},
		{CompetitionID: competitionID, ParticipantID: b, ResultTime: 660, Penalties: 0},
		{CompetitionID: competitionID, ParticipantID: c, ResultTime: 700, Penalties: 1},
	}

	// unit 30s: a=660, b=660, c=730 -> a,b tied at 1, c at 3
	standings, err := Standings(results, 30)
	if err != nil {
		t.Fatalf("Standings unexpected error: %v", err)
	}

	if len(standings) != 3 {
		t.Fatalf("got %d standings, want 3", len(standings))
	}
	if standings[0].Rank != 1 || standings[1].Rank != 1 || standings[2].Rank != 3 {
		t.Fatalf("ranks = [%d %d %d], want [1 1 3]",
			standings[0].Rank, standings[1].Rank, standings[2].Rank)
	}
	if standings[2].ParticipantID != c || standings[2].FinalTime != 730 {
		t.Fatalf("last standing = %+v, want participant %s with final time 730", standings[2], c)
	}
}

func TestStandingsRejectsNegativeResult(t *testing.T) {
	results := []models.Result{
		{ParticipantID: uuid.New(), ResultTime: -5, Penalties: 0},
	}
	if _, err := Standings(results, 30); err == nil {
		t.Fatal("Standings accepted a negative raw time")
	}
}
