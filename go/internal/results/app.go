package results

import (
	"context"
	"fmt"
	"log"

	"github.com/calisnet/engine/go/internal/events"
	"github.com/calisnet/engine/go/internal/models"
	"github.com/calisnet/engine/go/internal/scoring"
	"github.com/calisnet/engine/go/internal/timefmt"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ResultsRepository defines what the app layer needs from the repository
type ResultsRepository interface {
	UpsertResult(ctx context.Context, result models.Result) (*models.Result, error)
	DeleteResult(ctx context.Context, competitionID, participantID uuid.UUID) error
	ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Result, error)
	ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]models.Result, error)
	SaveRanks(ctx context.Context, competitionID uuid.UUID, ranks map[uuid.UUID]int) error
}

// CompetitionGetter resolves competitions for organizer checks and penalty units
type CompetitionGetter interface {
	GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error)
}

// ParticipantChecker gates result submission on an existing participant row
type ParticipantChecker interface {
	Exists(ctx context.Context, competitionID, userID uuid.UUID) (bool, error)
}

// EventRecorder records standings updates for asynchronous delivery
type EventRecorder interface {
	RecordStandingsUpdated(ctx context.Context, payload events.StandingsUpdatedPayload) error
}

// NameResolver resolves display names for scoreboard rows
type NameResolver interface {
	UsernamesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// App handles result entry and rank recomputation
type App struct {
	repo         ResultsRepository
	competitions CompetitionGetter
	participants ParticipantChecker
	names        NameResolver
	recorder     EventRecorder
	clock        clockwork.Clock
}

// NewApp creates a new results App
func NewApp(repo ResultsRepository, competitions CompetitionGetter, participants ParticipantChecker, names NameResolver, recorder EventRecorder, clock clockwork.Clock) *App {
	return &App{
		repo:         repo,
		competitions: competitions,
		participants: participants,
		names:        names,
		recorder:     recorder,
		clock:        clock,
	}
}

// SubmitResult records an organizer-entered result for a participant and
// refreshes the competition's ranks. The participant row must exist.
func (a *App) SubmitResult(ctx context.Context, competitionID, actorID uuid.UUID, req SubmitResultRequest) (*models.Result, error) {
	competition, err := a.competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if competition.OrganizerID != actorID {
		return nil, ErrNotOrganizer
	}

	isParticipant, err := a.participants.Exists(ctx, competitionID, req.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check participant: %w", err)
	}
	if !isParticipant {
		return nil, ErrNoParticipant
	}

	resultTime, err := timefmt.ParseDuration(req.ResultTime)
	if err != nil {
		return nil, err
	}
	if req.Penalties < 0 {
		return nil, fmt.Errorf("%w: penalty count %d", scoring.ErrInvalidInput, req.Penalties)
	}

	saved, err := a.repo.UpsertResult(ctx, models.Result{
		CompetitionID: competitionID,
		ParticipantID: req.ParticipantID,
		ResultTime:    resultTime,
		Penalties:     req.Penalties,
	})
	if err != nil {
		return nil, err
	}

	standings, err := a.refreshRanks(ctx, competition)
	if err != nil {
		return nil, err
	}
	for _, s := range standings {
		if s.ParticipantID == saved.ParticipantID {
			saved.Rank = s.Rank
		}
	}

	log.Printf("Result recorded for participant %s in competition %s (rank %d)",
		saved.ParticipantID, competitionID, saved.Rank)
	return saved, nil
}

// DeleteResult removes a participant's result and refreshes the remaining ranks.
func (a *App) DeleteResult(ctx context.Context, competitionID, actorID, participantID uuid.UUID) error {
	competition, err := a.competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if competition.OrganizerID != actorID {
		return ErrNotOrganizer
	}

	if err := a.repo.DeleteResult(ctx, competitionID, participantID); err != nil {
		return err
	}

	if _, err := a.refreshRanks(ctx, competition); err != nil {
		return err
	}

	log.Printf("Result deleted for participant %s in competition %s", participantID, competitionID)
	return nil
}

// StandingsFor recomputes the competition's scoreboard from the current
// result set. Ranks are always derived here, never read back blindly.
func (a *App) StandingsFor(ctx context.Context, competitionID uuid.UUID) ([]scoring.Standing, error) {
	competition, err := a.competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	stored, err := a.repo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	return scoring.Standings(stored, competition.PenaltyTime)
}

// ScoreboardFor is StandingsFor joined with local display names. Rows whose
// user has no local account keep an empty username rather than failing.
func (a *App) ScoreboardFor(ctx context.Context, competitionID uuid.UUID) ([]ScoreboardEntry, error) {
	standings, err := a.StandingsFor(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(standings))
	for i, s := range standings {
		ids[i] = s.ParticipantID
	}
	usernames, err := a.names.UsernamesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve usernames: %w", err)
	}

	entries := make([]ScoreboardEntry, len(standings))
	for i, s := range standings {
		entries[i] = ScoreboardEntry{
			ParticipantID: s.ParticipantID,
			Username:      usernames[s.ParticipantID],
			ResultTime:    s.ResultTime,
			Penalties:     s.Penalties,
			FinalTime:     s.FinalTime,
			Rank:          s.Rank,
		}
	}
	return entries, nil
}

// ListByParticipant retrieves a user's results across all competitions.
func (a *App) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]models.Result, error) {
	return a.repo.ListByParticipant(ctx, participantID)
}

// refreshRanks recomputes and persists ranks for the competition, then
// records a standings update event for the live gateway.
func (a *App) refreshRanks(ctx context.Context, competition *models.Competition) ([]scoring.Standing, error) {
	stored, err := a.repo.ListByCompetition(ctx, competition.ID)
	if err != nil {
		return nil, err
	}

	standings, err := scoring.Standings(stored, competition.PenaltyTime)
	if err != nil {
		return nil, err
	}

	ranks := make(map[uuid.UUID]int, len(standings))
	for _, s := range standings {
		ranks[s.ParticipantID] = s.Rank
	}
	if err := a.repo.SaveRanks(ctx, competition.ID, ranks); err != nil {
		return nil, err
	}

	payload := events.StandingsUpdatedPayload{
		CompetitionID: competition.ID,
		Standings:     standings,
		UpdatedAt:     a.clock.Now(),
	}
	if err := a.recorder.RecordStandingsUpdated(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to record standings update: %w", err)
	}

	return standings, nil
}
