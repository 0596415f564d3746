package main

import (
	"github.com/calisnet/engine/go/clients/calisnet"
	"github.com/calisnet/engine/go/internal/competitions"
	"github.com/calisnet/engine/go/internal/exercises"
	"github.com/calisnet/engine/go/internal/facade"
	"github.com/calisnet/engine/go/internal/outbox"
	"github.com/calisnet/engine/go/internal/participants"
	"github.com/calisnet/engine/go/internal/results"
	"github.com/calisnet/engine/go/internal/users"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
)

type Services struct {
	Users        *users.Service
	Competitions *competitions.Service
	Exercises    *exercises.Service
	Participants *participants.Service
	Results      *results.Service
	Views        *facade.Service
	Outbox       *outbox.Repository
}

func setupServices(pool *pgxpool.Pool, config *Config) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Service layer
	clock := clockwork.NewRealClock()
	outboxRepo := outbox.NewRepository(pool)

	// Users
	userRepo := users.NewRepository(pool)
	userApp := users.NewApp(userRepo)
	userService := users.NewService(userApp)

	// Competitions
	competitionRepo := competitions.NewRepository(pool)
	competitionApp := competitions.NewApp(competitionRepo)
	competitionService := competitions.NewService(competitionApp)

	// Workout definitions
	exerciseRepo := exercises.NewRepository(pool)
	exerciseApp := exercises.NewApp(exerciseRepo, competitionApp)
	exerciseService := exercises.NewService(exerciseApp)

	// Participation ledger
	participantRepo := participants.NewRepository(pool)
	participantApp := participants.NewApp(participantRepo, competitionApp, outboxRepo, clock)
	participantService := participants.NewService(participantApp)

	// Results and standings
	resultRepo := results.NewRepository(pool)
	resultApp := results.NewApp(resultRepo, competitionApp, participantRepo, userApp, outboxRepo, clock)
	resultService := results.NewService(resultApp)

	// Legacy API views
	legacyClient := calisnet.NewClient(config.LegacyAPI.BaseURL, config.LegacyAPI.Token)
	viewService := facade.NewService(facade.New(legacyClient, config.LegacyAPI.Timeout))

	return &Services{
		Users:        userService,
		Competitions: competitionService,
		Exercises:    exerciseService,
		Participants: participantService,
		Results:      resultService,
		Views:        viewService,
		Outbox:       outboxRepo,
	}
}
