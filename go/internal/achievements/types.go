package achievements

import (
	"github.com/calisnet/engine/go/internal/models"
)

// HistoryEntry pairs a competition with the user's result in it.
// Result is nil when the user joined but no result was recorded.
type HistoryEntry struct {
	Competition models.Competition `json:"competition"`
	Result      *models.Result     `json:"result,omitempty"`
}

// PodiumRank is the highest rank that counts as an achievement.
const PodiumRank = 3
