package usecases

import "github.com/hausgraph/autochain/internal/domain"

// ScoreWeights are the relative weights of the three path-quality signals.
// They are a tuning decision, not derived data; deployments may override them
// through configuration as long as they stay non-negative.
type ScoreWeights struct {
	Similarity      float64
	AreaConsistency float64
	DomainDiversity float64
}

// DefaultScoreWeights is the shipped weighting.
var DefaultScoreWeights = ScoreWeights{
	Similarity:      0.4,
	AreaConsistency: 0.3,
	DomainDiversity: 0.3,
}

// PathScorer assigns one score in [0,1] to a completed path from semantic
// coherence, area consistency and domain diversity.
type PathScorer struct {
	weights ScoreWeights
}

// NewPathScorer creates a PathScorer with the given weights.
func NewPathScorer(weights ScoreWeights) PathScorer {
	return PathScorer{weights: weights}
}

// Score computes
//
//	Wsim x mean hop similarity + Warea x area consistency + Wdiv x domain diversity
//
// Hop similarities are the values recorded during traversal, not recomputed.
// Area consistency is 1 when every device in the path shares one known area,
// otherwise 0. Domain diversity is the distinct-domain count divided by the
// path length. The result is clamped to [0,1] since the recorded hop
// similarity may carry the traversal's area bonus.
func (ps PathScorer) Score(path domain.Path) float64 {
	if len(path.Steps) < domain.PathMinLen {
		return 0
	}

	score := ps.weights.Similarity*meanHopSimilarity(path) +
		ps.weights.AreaConsistency*areaConsistency(path) +
		ps.weights.DomainDiversity*domainDiversity(path)

	return clamp01(score)
}

func meanHopSimilarity(path domain.Path) float64 {
	var sum float64
	for _, step := range path.Steps[1:] {
		sum += step.Similarity
	}
	return sum / float64(len(path.Steps)-1)
}

func areaConsistency(path domain.Path) float64 {
	area := path.Steps[0].Device.AreaID
	if area == "" {
		return 0
	}
	for _, step := range path.Steps[1:] {
		if step.Device.AreaID != area {
			return 0
		}
	}
	return 1
}

func domainDiversity(path domain.Path) float64 {
	domains := make(map[domain.DeviceDomain]struct{}, len(path.Steps))
	for _, step := range path.Steps {
		domains[step.Device.Domain] = struct{}{}
	}
	return float64(len(domains)) / float64(len(path.Steps))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
