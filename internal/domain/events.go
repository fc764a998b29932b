package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PathCandidate is the wire shape of one discovered chain handed to the
// suggestion pipeline: ordered device ids plus score and depth. The pipeline
// resolves ids back through the catalog provider.
type PathCandidate struct {
	DeviceIDs []string `json:"device_ids"`
	Score     float64  `json:"score"`
	Depth     int      `json:"depth"`
}

// PathsDiscoveredEvent carries the ranked result of one discovery run.
type PathsDiscoveredEvent struct {
	RunID        uuid.UUID       `json:"run_id"`
	ModelVersion string          `json:"model_version"`
	Paths        []PathCandidate `json:"paths"`
	DiscoveredAt time.Time       `json:"discovered_at"`
}

// PathEventPublisher delivers discovery results to the suggestion pipeline.
type PathEventPublisher interface {
	PublishPaths(ctx context.Context, event PathsDiscoveredEvent) error
}

// NewPathCandidates maps ranked paths to their wire shape, preserving order.
func NewPathCandidates(paths []Path) []PathCandidate {
	candidates := make([]PathCandidate, len(paths))
	for i, p := range paths {
		candidates[i] = PathCandidate{
			DeviceIDs: p.DeviceIDs(),
			Score:     p.Score,
			Depth:     p.Depth(),
		}
	}
	return candidates
}
