// Package http exposes the operational REST API of the discovery service:
// health, on-demand embedding refresh, on-demand path discovery and embedding
// cache purge.
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/hausgraph/autochain/internal/domain"
	"github.com/hausgraph/autochain/internal/telemetry"
	"github.com/hausgraph/autochain/internal/usecases"
)

// OpsServer is the operational HTTP server of the discovery service.
type OpsServer struct {
	Port          int                         `config:"HTTP_PORT" default:"8080"`
	Logger        *log.Logger                 `resolve:""`
	Generator     usecases.GenerateEmbeddings `resolve:""`
	Discoverer    usecases.DiscoverChains     `resolve:""`
	EmbeddingRepo domain.EmbeddingRepository  `resolve:""`
}

// Run starts the HTTP server for the OpsServer.
func (api OpsServer) Run(ctx context.Context) error {
	s := &http.Server{
		Handler: api.handler(),
		Addr:    fmt.Sprintf(":%d", api.Port),
	}

	errCh := make(chan error, 1)
	go func() {
		api.Logger.Printf("OpsServer: Listening on port %d", api.Port)
		errCh <- s.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		if err != nil {
			api.Logger.Printf("OpsServer: error during shutdown: %v", err)
		} else {
			api.Logger.Println("OpsServer: stopped")
		}
		return err
	case err := <-errCh:
		return err
	}
}

// handler builds the route table with telemetry and CORS applied.
func (api OpsServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.handleHealthz)
	mux.HandleFunc("POST /v1/embeddings/refresh", api.handleRefreshEmbeddings)
	mux.HandleFunc("DELETE /v1/embeddings", api.handlePurgeEmbeddings)
	mux.HandleFunc("POST /v1/paths/discover", api.handleDiscoverPaths)

	h := telemetry.Middleware("autochain-ops")(mux)

	// Apply CORS at the top-level so preflight requests hit it, too.
	return cors.AllowAll().Handler(h)
}

// IsReady checks if the OpsServer is ready by performing a health check.
func (api OpsServer) IsReady(ctx context.Context) error {
	resp, err := http.Get(fmt.Sprintf("http://:%d/healthz", api.Port))
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
