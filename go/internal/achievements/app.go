// Package achievements derives a user's competition history and podium
// finishes. Both views are recomputed from the participation and result rows
// on every request; these are low-frequency reporting queries and stale
// denormalized copies caused rank drift in the past.
package achievements

import (
	"context"
	"fmt"
	"sort"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

// ParticipationSource lists a user's current participations
type ParticipationSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error)
}

// ResultSource lists a user's results across competitions
type ResultSource interface {
	ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]models.Result, error)
}

// CompetitionSource resolves competitions referenced by participations and results
type CompetitionSource interface {
	GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error)
}

// App folds a user's participations and results into history and achievements
type App struct {
	participations ParticipationSource
	results        ResultSource
	competitions   CompetitionSource
}

// NewApp creates a new achievements App
func NewApp(participations ParticipationSource, results ResultSource, competitions CompetitionSource) *App {
	return &App{
		participations: participations,
		results:        results,
		competitions:   competitions,
	}
}

// History returns every competition the user has joined or recorded a result
// in, most recent competition date first. Results survive leaving a
// competition, so the union of both sources is taken. Users with no history
// get an empty slice.
func (a *App) History(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	participations, err := a.participations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}

	results, err := a.results.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	resultsByCompetition := make(map[uuid.UUID]models.Result, len(results))
	for _, result := range results {
		resultsByCompetition[result.CompetitionID] = result
	}

	competitionIDs := make([]uuid.UUID, 0, len(participations)+len(results))
	seen := make(map[uuid.UUID]bool)
	for _, p := range participations {
		if !seen[p.CompetitionID] {
			seen[p.CompetitionID] = true
			competitionIDs = append(competitionIDs, p.CompetitionID)
		}
	}
	for _, r := range results {
		if !seen[r.CompetitionID] {
			seen[r.CompetitionID] = true
			competitionIDs = append(competitionIDs, r.CompetitionID)
		}
	}

	entries := make([]HistoryEntry, 0, len(competitionIDs))
	for _, competitionID := range competitionIDs {
		competition, err := a.competitions.GetCompetition(ctx, competitionID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve competition %s: %w", competitionID, err)
		}

		entry := HistoryEntry{Competition: *competition}
		if result, ok := resultsByCompetition[competitionID]; ok {
			r := result
			entry.Result = &r
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Competition.Date.After(entries[j].Competition.Date)
	})

	return entries, nil
}

// Achievements returns the user's podium finishes (rank 1-3), most recent
// competition date first. Empty slice when the user has none.
func (a *App) Achievements(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	history, err := a.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	podium := make([]HistoryEntry, 0, len(history))
	for _, entry := range history {
		if entry.Result != nil && entry.Result.Rank >= 1 && entry.Result.Rank <= PodiumRank {
			podium = append(podium, entry)
		}
	}
	return podium, nil
}
