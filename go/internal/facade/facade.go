// Package facade translates the legacy API's paginated, cross-referenced
// resources into the canonical entities the engine consumes. It is the only
// place that talks to the legacy API, and the only place that knows about its
// inconsistencies; everything downstream sees go/internal/models shapes.
package facade

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/calisnet/engine/go/clients"
	"github.com/calisnet/engine/go/internal/achievements"
	"github.com/calisnet/engine/go/internal/models"
	"github.com/calisnet/engine/go/internal/scoring"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LegacyAPI is the slice of the calisnet client the façade needs.
type LegacyAPI interface {
	GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error)
	GetParticipants(ctx context.Context, competitionID uuid.UUID) ([]models.Participant, error)
	GetParticipationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error)
	GetResults(ctx context.Context, competitionID uuid.UUID) ([]models.Result, error)
	GetResultsByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Result, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// ParticipantInfo is a participant joined with the resolved display name.
type ParticipantInfo struct {
	UserID   uuid.UUID `json:"participant_id"`
	Username string    `json:"username"`
}

// CompetitionBoard is a competition with its participants and computed standings.
type CompetitionBoard struct {
	Competition  models.Competition `json:"competition"`
	Participants []ParticipantInfo  `json:"participants"`
	Standings    []scoring.Standing `json:"standings"`
}

// Facade batches and normalizes legacy API lookups.
type Facade struct {
	api     LegacyAPI
	timeout time.Duration
}

// New creates a façade over the legacy API. Timeout bounds each aggregate
// operation; zero keeps the context's own deadline only.
func New(api LegacyAPI, timeout time.Duration) *Facade {
	return &Facade{api: api, timeout: timeout}
}

// CompetitionStandings resolves a competition together with its participants,
// their display names, and the computed scoreboard. The three root fetches
// run in parallel; missing participants or results resolve to empty
// collections while any other failure aggregates into a PartialFetchError.
func (f *Facade) CompetitionStandings(ctx context.Context, competitionID uuid.UUID) (*CompetitionBoard, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		failures     []FetchFailure
		competition  *models.Competition
		participants []models.Participant
		results      []models.Result
	)

	fail := func(resource string, err error) {
		mu.Lock()
		failures = append(failures, FetchFailure{Resource: resource, Err: err})
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		competition, err = f.api.GetCompetition(ctx, competitionID)
		if err != nil {
			fail("competition", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		participants, err = f.api.GetParticipants(ctx, competitionID)
		if err != nil && !errors.Is(err, clients.ErrNotFound) {
			fail("participants", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		results, err = f.api.GetResults(ctx, competitionID)
		if err != nil && !errors.Is(err, clients.ErrNotFound) {
			fail("results", err)
		}
	}()
	wg.Wait()

	if len(failures) > 0 {
		return nil, &PartialFetchError{Failures: failures}
	}

	standings, err := scoring.Standings(results, competition.PenaltyTime)
	if err != nil {
		return nil, err
	}

	infos, err := f.resolveUsernames(ctx, participants)
	if err != nil {
		return nil, err
	}

	return &CompetitionBoard{
		Competition:  *competition,
		Participants: infos,
		Standings:    standings,
	}, nil
}

// UserHistory resolves a username into the user's competition history:
// username -> user id, then participations and results in parallel, then the
// referenced competitions in parallel. Competitions the legacy store has
// since lost are skipped rather than failing the whole view.
func (f *Facade) UserHistory(ctx context.Context, username string) (*models.User, []achievements.HistoryEntry, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	user, err := f.api.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	var (
		wg             sync.WaitGroup
		mu             sync.Mutex
		failures       []FetchFailure
		participations []models.Participant
		results        []models.Result
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		participations, err = f.api.GetParticipationsByUser(ctx, user.ID)
		if err != nil && !errors.Is(err, clients.ErrNotFound) {
			mu.Lock()
			failures = append(failures, FetchFailure{Resource: "participations", Err: err})
			mu.Unlock()
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		results, err = f.api.GetResultsByParticipant(ctx, user.ID)
		if err != nil && !errors.Is(err, clients.ErrNotFound) {
			mu.Lock()
			failures = append(failures, FetchFailure{Resource: "results", Err: err})
			mu.Unlock()
		}
	}()
	wg.Wait()

	if len(failures) > 0 {
		return nil, nil, &PartialFetchError{Failures: failures}
	}

	resultsByCompetition := make(map[uuid.UUID]models.Result, len(results))
	for _, result := range results {
		resultsByCompetition[result.CompetitionID] = result
	}

	seen := make(map[uuid.UUID]bool)
	var competitionIDs []uuid.UUID
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

	competitions, err := f.fetchCompetitions(ctx, competitionIDs)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]achievements.HistoryEntry, 0, len(competitions))
	for _, competitionID := range competitionIDs {
		competition, ok := competitions[competitionID]
		if !ok {
			continue
		}
		entry := achievements.HistoryEntry{Competition: competition}
		if result, found := resultsByCompetition[competitionID]; found {
			r := result
			entry.Result = &r
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Competition.Date.After(entries[j].Competition.Date)
	})

	return user, entries, nil
}

// UserAchievements is UserHistory filtered to podium finishes.
func (f *Facade) UserAchievements(ctx context.Context, username string) (*models.User, []achievements.HistoryEntry, error) {
	user, history, err := f.UserHistory(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	podium := make([]achievements.HistoryEntry, 0, len(history))
	for _, entry := range history {
		if entry.Result != nil && entry.Result.Rank >= 1 && entry.Result.Rank <= achievements.PodiumRank {
			podium = append(podium, entry)
		}
	}
	return user, podium, nil
}

// fetchCompetitions resolves a batch of competition ids in parallel.
// Not-found entries are dropped; other failures aggregate.
func (f *Facade) fetchCompetitions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Competition, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []FetchFailure
		out      = make(map[uuid.UUID]models.Competition, len(ids))
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			competition, err := f.api.GetCompetition(ctx, id)
			if err != nil {
				if errors.Is(err, clients.ErrNotFound) {
					log.Warn().Str("competition_id", id.String()).Msg("skipping competition missing from legacy store")
					return
				}
				mu.Lock()
				failures = append(failures, FetchFailure{Resource: "competition/" + id.String(), Err: err})
				mu.Unlock()
				return
			}
			mu.Lock()
			out[id] = *competition
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	if len(failures) > 0 {
		return nil, &PartialFetchError{Failures: failures}
	}
	return out, nil
}

// resolveUsernames joins participants with their display names in parallel.
// A missing user record leaves the username empty rather than failing the view.
func (f *Facade) resolveUsernames(ctx context.Context, participants []models.Participant) ([]ParticipantInfo, error) {
	infos := make([]ParticipantInfo, len(participants))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []FetchFailure
	)

	for i, participant := range participants {
		infos[i] = ParticipantInfo{UserID: participant.UserID}
		wg.Add(1)
		go func(i int, userID uuid.UUID) {
			defer wg.Done()
			user, err := f.api.GetUser(ctx, userID)
			if err != nil {
				if errors.Is(err, clients.ErrNotFound) {
					return
				}
				mu.Lock()
				failures = append(failures, FetchFailure{Resource: "user/" + userID.String(), Err: err})
				mu.Unlock()
				return
			}
			infos[i].Username = user.Username
		}(i, participant.UserID)
	}
	wg.Wait()

	if len(failures) > 0 {
		return nil, &PartialFetchError{Failures: failures}
	}
	return infos, nil
}

func (f *Facade) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, f.timeout)
}

// The façade satisfies the achievements source interfaces so the aggregator
// can fold over the legacy API instead of the local store.

// ListByUser implements achievements.ParticipationSource.
func (f *Facade) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error) {
	participations, err := f.api.GetParticipationsByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return participations, nil
}

// ListByParticipant implements achievements.ResultSource.
func (f *Facade) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Result, error) {
	results, err := f.api.GetResultsByParticipant(ctx, userID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return results, nil
}

// GetCompetition implements achievements.CompetitionSource.
func (f *Facade) GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	return f.api.GetCompetition(ctx, id)
}
