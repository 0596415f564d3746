package calisnet

const (
	// API Endpoints
	CompetitionsEndpoint = "/competitions"
	ParticipantsEndpoint = "/participants"
	ResultsEndpoint      = "/results"
	UsersEndpoint        = "/users"

	// Legacy aliases still served by older API revisions
	UserByUsernameEndpoint      = "/users/username"
	ResultsByParticipantEndpoint = "/results/participant"
)
