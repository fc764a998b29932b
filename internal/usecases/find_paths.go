package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/hausgraph/autochain/internal/common"
	"github.com/hausgraph/autochain/internal/domain"
	"github.com/hausgraph/autochain/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SearchParams tune one path-discovery run.
type SearchParams struct {
	// MaxDepth is the maximum number of devices in a chain, between 2 and 5.
	MaxDepth int
	// MinSimilarity is the lowest hop similarity (after area bonus) a candidate
	// may have to be enqueued.
	MinSimilarity float64
	// TopKPerHop bounds the branching factor at every expansion.
	TopKPerHop int
	// AreaBonus is added to the raw similarity when a candidate shares the
	// current device's area.
	AreaBonus float64
	// MinScore is the acceptance floor for completed paths.
	MinScore float64
	// PerTriggerTimeout bounds the traversal per trigger device. On expiry the
	// remaining frontier is abandoned and already-accepted paths are returned.
	PerTriggerTimeout time.Duration
	// MaxEmbeddingAge is the freshness window of the vectors a run may read.
	// Rows older than this are excluded from the snapshot even when their model
	// version matches.
	MaxEmbeddingAge time.Duration
}

// DefaultSearchParams returns the shipped defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		MaxDepth:          3,
		MinSimilarity:     0.6,
		TopKPerHop:        5,
		AreaBonus:         0.1,
		MinScore:          0.5,
		PerTriggerTimeout: 5 * time.Second,
		MaxEmbeddingAge:   720 * time.Hour,
	}
}

// Validate checks the parameter bounds.
func (sp SearchParams) Validate() error {
	if sp.MaxDepth < domain.PathMinLen || sp.MaxDepth > domain.PathMaxLen {
		return domain.NewValidationErr(fmt.Sprintf("max_depth must be between %d and %d, got %d", domain.PathMinLen, domain.PathMaxLen, sp.MaxDepth))
	}
	if sp.TopKPerHop <= 0 {
		return domain.NewValidationErr("top_k_per_hop must be greater than 0")
	}
	if sp.PerTriggerTimeout <= 0 {
		return domain.NewValidationErr("per_trigger_timeout must be greater than 0")
	}
	if sp.MaxEmbeddingAge <= 0 {
		return domain.NewValidationErr("max_embedding_age must be greater than 0")
	}
	return nil
}

// FindPaths defines the interface for the path discovery use case.
type FindPaths interface {
	// Execute runs a bounded-depth, similarity-guided breadth-first search from
	// every trigger device and returns the accepted paths in a deterministic
	// total order: score desc, then trigger device id, then chain ids.
	Execute(ctx context.Context, triggerIDs []string, params SearchParams) ([]domain.Path, error)
}

// FindPathsImpl is the implementation of the FindPaths use case.
//
// One Execute call takes a single consistent snapshot of the embedding store;
// traversal never touches the store again, so a concurrently running
// generation pass cannot tear the vectors mid-search.
type FindPathsImpl struct {
	embeddingRepo domain.EmbeddingRepository
	catalog       domain.CatalogProvider
	encoder       domain.SemanticEncoder
	scorer        PathScorer
}

// NewFindPathsImpl creates a new instance of FindPathsImpl.
func NewFindPathsImpl(
	embeddingRepo domain.EmbeddingRepository,
	catalog domain.CatalogProvider,
	encoder domain.SemanticEncoder,
	scorer PathScorer,
) FindPathsImpl {
	return FindPathsImpl{
		embeddingRepo: embeddingRepo,
		catalog:       catalog,
		encoder:       encoder,
		scorer:        scorer,
	}
}

// vectorSnapshot is the immutable read model of one discovery run.
type vectorSnapshot struct {
	vectors map[string][]float64
	devices map[string]domain.Device
	// ids of every device that carries both a vector and catalog metadata, in
	// lexical order so candidate scans are deterministic
	ids []string
}

// Execute implements FindPaths.
func (fp FindPathsImpl) Execute(ctx context.Context, triggerIDs []string, params SearchParams) ([]domain.Path, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("triggers", len(triggerIDs)),
		attribute.Int("max_depth", params.MaxDepth),
	))
	defer span.End()

	if err := params.Validate(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	snapshot, err := fp.loadSnapshot(spanCtx, params.MaxEmbeddingAge)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	var (
		mu       sync.Mutex
		accepted []domain.Path
		wg       sync.WaitGroup
	)

	// Triggers share only the read-only snapshot, so they are safe to search
	// in parallel.
	for _, triggerID := range triggerIDs {
		if _, ok := snapshot.vectors[triggerID]; !ok {
			continue
		}

		wg.Add(1)
		go func(triggerID string) {
			defer wg.Done()

			triggerCtx, cancel := context.WithTimeout(spanCtx, params.PerTriggerTimeout)
			defer cancel()

			paths := fp.search(triggerCtx, triggerID, snapshot, params)

			mu.Lock()
			accepted = append(accepted, paths...)
			mu.Unlock()
		}(triggerID)
	}
	wg.Wait()

	sortPaths(accepted)

	RecordPathsDiscovered(spanCtx, len(accepted))
	span.SetAttributes(attribute.Int("paths", len(accepted)))
	return accepted, nil
}

// loadSnapshot materializes the vectors and device metadata one run works on.
// Only fresh embeddings make it in: matching model version, within maxAge.
func (fp FindPathsImpl) loadSnapshot(ctx context.Context, maxAge time.Duration) (vectorSnapshot, error) {
	vectors, err := fp.embeddingRepo.All(ctx, fp.encoder.ModelVersion(), maxAge)
	if err != nil {
		return vectorSnapshot{}, err
	}

	catalogDevices, err := fp.catalog.ListDevices(ctx)
	if err != nil {
		return vectorSnapshot{}, err
	}

	snapshot := vectorSnapshot{
		vectors: vectors,
		devices: make(map[string]domain.Device, len(catalogDevices)),
	}
	for _, device := range catalogDevices {
		if _, ok := vectors[device.ID]; !ok {
			continue
		}
		snapshot.devices[device.ID] = device
		snapshot.ids = append(snapshot.ids, device.ID)
	}
	sort.Strings(snapshot.ids)

	return snapshot, nil
}

// scoredCandidate is one expansion candidate during a hop.
type scoredCandidate struct {
	id         string
	similarity float64
}

// search runs the bounded breadth-first traversal for one trigger device.
//
// Branching is capped at TopKPerHop, so the explored path count is bounded by
// TopKPerHop^(MaxDepth-1) independent of catalog size; the per-hop candidate
// scan is O(catalog). Every path strictly grows and the visited check shrinks
// the candidate pool each hop, so the walk always terminates.
func (fp FindPathsImpl) search(ctx context.Context, triggerID string, snapshot vectorSnapshot, params SearchParams) []domain.Path {
	var accepted []domain.Path

	queue := []([]domain.PathStep){
		{{Device: snapshot.devices[triggerID]}},
	}

	for head := 0; head < len(queue); head++ {
		if ctx.Err() != nil {
			// deadline passed: abandon the remaining frontier, keep what we have
			break
		}

		steps := queue[head]
		current := steps[len(steps)-1].Device
		currentVec := snapshot.vectors[current.ID]

		candidates := fp.rankCandidates(currentVec, current, steps, snapshot, params)

		if len(candidates) == 0 {
			// dead end: a chain that can no longer grow is still a result once
			// it spans at least two devices
			if len(steps) >= domain.PathMinLen {
				accepted = fp.finalize(accepted, steps, params)
			}
			continue
		}

		for _, cand := range candidates {
			child := make([]domain.PathStep, len(steps), len(steps)+1)
			copy(child, steps)
			child = append(child, domain.PathStep{
				Device:     snapshot.devices[cand.id],
				Similarity: cand.similarity,
			})

			if len(child) == params.MaxDepth {
				accepted = fp.finalize(accepted, child, params)
				continue
			}
			queue = append(queue, child)
		}
	}

	return accepted
}

// rankCandidates scores every not-yet-visited device against the current one
// and keeps the top-K above the similarity floor, ordered similarity desc then
// device id for determinism.
func (fp FindPathsImpl) rankCandidates(currentVec []float64, current domain.Device, steps []domain.PathStep, snapshot vectorSnapshot, params SearchParams) []scoredCandidate {
	var candidates []scoredCandidate

	for _, id := range snapshot.ids {
		if onPath(steps, id) {
			continue
		}

		similarity, ok := common.Dot(currentVec, snapshot.vectors[id])
		if !ok {
			continue
		}
		if current.SameArea(snapshot.devices[id]) {
			similarity += params.AreaBonus
		}
		if similarity < params.MinSimilarity {
			continue
		}

		candidates = append(candidates, scoredCandidate{id: id, similarity: similarity})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].similarity != candidates[j].similarity {
			return candidates[i].similarity > candidates[j].similarity
		}
		return candidates[i].id < candidates[j].id
	})

	if len(candidates) > params.TopKPerHop {
		candidates = candidates[:params.TopKPerHop]
	}
	return candidates
}

// finalize scores a completed chain and keeps it when it clears the floor.
func (fp FindPathsImpl) finalize(accepted []domain.Path, steps []domain.PathStep, params SearchParams) []domain.Path {
	path := domain.Path{Steps: steps}
	path.Score = fp.scorer.Score(path)
	if path.Score < params.MinScore {
		return accepted
	}
	return append(accepted, path)
}

// onPath reports whether the device already appears on the chain. Chains hold
// at most five devices, so a linear scan beats a set here.
func onPath(steps []domain.PathStep, deviceID string) bool {
	for _, s := range steps {
		if s.Device.ID == deviceID {
			return true
		}
	}
	return false
}

// sortPaths applies the deterministic output order: score desc, then trigger
// device id, then the joined chain ids.
func sortPaths(paths []domain.Path) {
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Score != paths[j].Score {
			return paths[i].Score > paths[j].Score
		}
		if paths[i].TriggerID() != paths[j].TriggerID() {
			return paths[i].TriggerID() < paths[j].TriggerID()
		}
		return paths[i].Key() < paths[j].Key()
	})
}

// InitFindPaths initializes the FindPaths use case and registers it in the
// dependency container.
type InitFindPaths struct {
	EmbeddingRepo         domain.EmbeddingRepository `resolve:""`
	Catalog               domain.CatalogProvider     `resolve:""`
	Encoder               domain.SemanticEncoder     `resolve:""`
	SimilarityWeight      float64                    `config:"SCORE_WEIGHT_SIMILARITY" default:"0.4"`
	AreaConsistencyWeight float64                    `config:"SCORE_WEIGHT_AREA" default:"0.3"`
	DomainDiversityWeight float64                    `config:"SCORE_WEIGHT_DIVERSITY" default:"0.3"`
}

// Initialize registers the FindPathsImpl use case in the dependency container.
func (fp InitFindPaths) Initialize(ctx context.Context) (context.Context, error) {
	scorer := NewPathScorer(ScoreWeights{
		Similarity:      fp.SimilarityWeight,
		AreaConsistency: fp.AreaConsistencyWeight,
		DomainDiversity: fp.DomainDiversityWeight,
	})
	depend.Register[FindPaths](NewFindPathsImpl(fp.EmbeddingRepo, fp.Catalog, fp.Encoder, scorer))
	return ctx, nil
}
