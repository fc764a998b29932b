package http

import (
	"net/http"
	"strconv"

	"github.com/hausgraph/autochain/internal/domain"
)

// HealthResp is the body of GET /healthz.
type HealthResp struct {
	Status string `json:"status"`
}

// PurgeResp is the body of DELETE /v1/embeddings.
type PurgeResp struct {
	Purged int64 `json:"purged"`
}

// DiscoverResp is the body of POST /v1/paths/discover.
type DiscoverResp struct {
	Paths []domain.PathCandidate `json:"paths"`
}

func (api OpsServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResp{Status: "ok"})
}

// handleRefreshEmbeddings runs the embedding generator synchronously and returns
// its run statistics. The force query flag re-encodes every device regardless of
// cache freshness.
func (api OpsServer) handleRefreshEmbeddings(w http.ResponseWriter, r *http.Request) {
	force, err := parseBoolQuery(r, "force")
	if err != nil {
		respondError(w, err)
		return
	}

	stats, err := api.Generator.Execute(r.Context(), force)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (api OpsServer) handlePurgeEmbeddings(w http.ResponseWriter, r *http.Request) {
	purged, err := api.EmbeddingRepo.Purge(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, PurgeResp{Purged: purged})
}

// handleDiscoverPaths runs one discovery pass synchronously and returns the
// ranked candidates. The run also publishes them to the suggestion pipeline.
func (api OpsServer) handleDiscoverPaths(w http.ResponseWriter, r *http.Request) {
	paths, err := api.Discoverer.Execute(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DiscoverResp{Paths: domain.NewPathCandidates(paths)})
}

func parseBoolQuery(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationErr(key + " must be a boolean")
	}
	return value, nil
}
