package scoring

import (
	"fmt"
	"sort"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

// Entry is one participant's final time, input to Rank.
type Entry struct {
	ParticipantID uuid.UUID
	FinalTime     int
}

// Standing is one row of a computed scoreboard.
type Standing struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	ResultTime    int       `json:"result_time"`
	Penalties     int       `json:"penalties"`
	FinalTime     int       `json:"final_time"`
	Rank          int       `json:"rank"`
}

// Rank assigns competition ranks by ascending final time. Tied times share
// the lower rank and the next distinct time takes 1 plus the count of
// strictly faster entries, so times [10,10,12] rank [1,1,3].
// An empty input yields an empty map.
func Rank(entries []Entry) map[uuid.UUID]int {
	ranks := make(map[uuid.UUID]int, len(entries))
	if len(entries) == 0 {
		return ranks
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].FinalTime != sorted[j].FinalTime {
			return sorted[i].FinalTime < sorted[j].FinalTime
		}
		return sorted[i].ParticipantID.String() < sorted[j].ParticipantID.String()
	})

	rank := 1
	for i, entry := range sorted {
		if i > 0 && entry.FinalTime != sorted[i-1].FinalTime {
			rank = i + 1
		}
		ranks[entry.ParticipantID] = rank
	}
	return ranks
}

// Standings folds a competition's results into a ranked scoreboard using the
// competition's penalty unit. Rows come back sorted by rank, ties broken by
// participant id for a stable display order.
func Standings(results []models.Result, penaltyUnitSeconds int) ([]Standing, error) {
	entries := make([]Entry, 0, len(results))
	byParticipant := make(map[uuid.UUID]models.Result, len(results))

	for _, r := range results {
		finalTime, err := FinalTime(r.ResultTime, r.Penalties, penaltyUnitSeconds)
		if err != nil {
			return nil, fmt.Errorf("result for participant %s: %w", r.ParticipantID, err)
		}
		entries = append(entries, Entry{ParticipantID: r.ParticipantID, FinalTime: finalTime})
		byParticipant[r.ParticipantID] = r
	}

	ranks := Rank(entries)

	standings := make([]Standing, 0, len(entries))
	for _, e := range entries {
		r := byParticipant[e.ParticipantID]
		standings = append(standings, Standing{
			ParticipantID: e.ParticipantID,
			ResultTime:    r.ResultTime,
			Penalties:     r.Penalties,
			FinalTime:     e.FinalTime,
			Rank:          ranks[e.ParticipantID],
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Rank != standings[j].Rank {
			return standings[i].Rank < standings[j].Rank
		}
		return standings[i].ParticipantID.String() < standings[j].ParticipantID.String()
	})

	return standings, nil
}
