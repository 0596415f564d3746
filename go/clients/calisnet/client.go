// Package calisnet is a typed client for the legacy calisnet REST API. The
// legacy service grew several response shapes for the same resources
// (participant_id vs userId, durations as numbers or "H:MM:SS" strings), so
// every fetcher normalizes into the canonical models before returning.
package calisnet

import (
	"github.com/calisnet/engine/go/clients"
)

type Client struct {
	*clients.BaseClient
}

// NewClient creates a calisnet API client. Token may be empty for the
// read-only endpoints.
func NewClient(baseURL, token string) *Client {
	client := &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetHeader("Authorization", "Bearer "+token)
	}

	return client
}
