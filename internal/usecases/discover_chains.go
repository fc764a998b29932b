package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/hausgraph/autochain/internal/domain"
	"github.com/hausgraph/autochain/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// DiscoverChains defines the interface for one end-to-end discovery run:
// select trigger devices, find ranked paths and hand them to the suggestion
// pipeline.
type DiscoverChains interface {
	Execute(ctx context.Context) ([]domain.Path, error)
}

// DiscoverChainsImpl is the implementation of the DiscoverChains use case.
type DiscoverChainsImpl struct {
	catalog        domain.CatalogProvider
	finder         FindPaths
	publisher      domain.PathEventPublisher
	encoder        domain.SemanticEncoder
	timeProvider   domain.CurrentTimeProvider
	triggerDomains map[domain.DeviceDomain]struct{}
	params         SearchParams
}

// NewDiscoverChainsImpl creates a new instance of DiscoverChainsImpl.
func NewDiscoverChainsImpl(
	catalog domain.CatalogProvider,
	finder FindPaths,
	publisher domain.PathEventPublisher,
	encoder domain.SemanticEncoder,
	timeProvider domain.CurrentTimeProvider,
	triggerDomains []domain.DeviceDomain,
	params SearchParams,
) DiscoverChainsImpl {
	domains := make(map[domain.DeviceDomain]struct{}, len(triggerDomains))
	for _, d := range triggerDomains {
		domains[d] = struct{}{}
	}
	return DiscoverChainsImpl{
		catalog:        catalog,
		finder:         finder,
		publisher:      publisher,
		encoder:        encoder,
		timeProvider:   timeProvider,
		triggerDomains: domains,
		params:         params,
	}
}

// Execute implements DiscoverChains.
func (dc DiscoverChainsImpl) Execute(ctx context.Context) ([]domain.Path, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	devices, err := dc.catalog.ListDevices(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	var triggerIDs []string
	for _, device := range devices {
		if _, ok := dc.triggerDomains[device.Domain]; ok {
			triggerIDs = append(triggerIDs, device.ID)
		}
	}
	span.SetAttributes(attribute.Int("triggers", len(triggerIDs)))

	if len(triggerIDs) == 0 {
		return nil, nil
	}

	paths, err := dc.finder.Execute(spanCtx, triggerIDs, dc.params)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	event := domain.PathsDiscoveredEvent{
		RunID:        uuid.New(),
		ModelVersion: dc.encoder.ModelVersion(),
		Paths:        domain.NewPathCandidates(paths),
		DiscoveredAt: dc.timeProvider.Now(),
	}
	if err := dc.publisher.PublishPaths(spanCtx, event); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	return paths, nil
}

// InitDiscoverChains initializes the DiscoverChains use case and registers it
// in the dependency container.
type InitDiscoverChains struct {
	Catalog           domain.CatalogProvider     `resolve:""`
	Finder            FindPaths                  `resolve:""`
	Publisher         domain.PathEventPublisher  `resolve:""`
	Encoder           domain.SemanticEncoder     `resolve:""`
	TimeProvider      domain.CurrentTimeProvider `resolve:""`
	TriggerDomains    string                     `config:"TRIGGER_DOMAINS" default:"binary_sensor,sensor"`
	MaxDepth          int                        `config:"PATH_MAX_DEPTH" default:"3"`
	MinSimilarity     float64                    `config:"PATH_MIN_SIMILARITY" default:"0.6"`
	TopKPerHop        int                        `config:"PATH_TOP_K_PER_HOP" default:"5"`
	AreaBonus         float64                    `config:"PATH_AREA_BONUS" default:"0.1"`
	MinScore          float64                    `config:"PATH_MIN_SCORE" default:"0.5"`
	PerTriggerTimeout time.Duration              `config:"PATH_TRIGGER_TIMEOUT" default:"5s"`
	MaxEmbeddingAge   time.Duration              `config:"EMBEDDING_MAX_AGE" default:"720h"`
}

// Initialize registers the DiscoverChainsImpl use case in the dependency container.
func (idc InitDiscoverChains) Initialize(ctx context.Context) (context.Context, error) {
	var triggerDomains []domain.DeviceDomain
	for _, raw := range strings.Split(idc.TriggerDomains, ",") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			triggerDomains = append(triggerDomains, domain.DeviceDomain(trimmed))
		}
	}

	params := SearchParams{
		MaxDepth:          idc.MaxDepth,
		MinSimilarity:     idc.MinSimilarity,
		TopKPerHop:        idc.TopKPerHop,
		AreaBonus:         idc.AreaBonus,
		MinScore:          idc.MinScore,
		PerTriggerTimeout: idc.PerTriggerTimeout,
		MaxEmbeddingAge:   idc.MaxEmbeddingAge,
	}
	if err := params.Validate(); err != nil {
		return ctx, err
	}

	depend.Register[DiscoverChains](NewDiscoverChainsImpl(
		idc.Catalog,
		idc.Finder,
		idc.Publisher,
		idc.Encoder,
		idc.TimeProvider,
		triggerDomains,
		params,
	))
	return ctx, nil
}
