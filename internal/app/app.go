package app

import (
	"github.com/cleitonmarx/symbiont"

	"github.com/hausgraph/autochain/internal/adapters/inbound/http"
	"github.com/hausgraph/autochain/internal/adapters/inbound/workers"
	"github.com/hausgraph/autochain/internal/adapters/outbound/config"
	"github.com/hausgraph/autochain/internal/adapters/outbound/hass"
	"github.com/hausgraph/autochain/internal/adapters/outbound/log"
	"github.com/hausgraph/autochain/internal/adapters/outbound/modelrunner"
	"github.com/hausgraph/autochain/internal/adapters/outbound/postgres"
	"github.com/hausgraph/autochain/internal/adapters/outbound/pubsub"
	"github.com/hausgraph/autochain/internal/adapters/outbound/time"
	"github.com/hausgraph/autochain/internal/telemetry"
	"github.com/hausgraph/autochain/internal/usecases"
)

// NewAutochainApp creates and returns a new instance of the chain discovery
// application.
func NewAutochainApp(initializers ...symbiont.Initializer) *symbiont.App {
	return symbiont.NewApp().
		Initialize(initializers...).
		Initialize(
			&log.InitLogger{},
			&telemetry.InitOpenTelemetry{},
			&telemetry.InitHttpClient{},
			&config.InitVaultProvider{},
			&time.InitCurrentTimeProvider{},
			&postgres.InitDB{},
			&postgres.InitEmbeddingRepository{},
			&pubsub.InitClient{},
			&pubsub.InitPublisher{},
			&hass.InitCatalogProvider{},
			&modelrunner.InitSemanticEncoder{},

			&usecases.InitGenerateEmbeddings{},
			&usecases.InitFindPaths{},
			&usecases.InitDiscoverChains{},
		).
		Host(
			&http.OpsServer{},
			&workers.EmbeddingRefresher{},
			&workers.ChainDiscoverer{},
		).
		Introspect(&MermaidGraphIntrospector{})
}
