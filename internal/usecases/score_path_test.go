package usecases

import (
	"testing"

	"github.com/hausgraph/autochain/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPathScorer_Score(t *testing.T) {
	scorer := NewPathScorer(DefaultScoreWeights)

	motion := domain.Device{ID: "binary_sensor.kitchen_motion", Domain: domain.DeviceDomain_BINARY_SENSOR, AreaID: "kitchen"}
	light := domain.Device{ID: "light.kitchen", Domain: domain.DeviceDomain_LIGHT, AreaID: "kitchen"}
	speaker := domain.Device{ID: "media_player.kitchen", Domain: domain.DeviceDomain_MEDIA_PLAYER, AreaID: "kitchen"}
	hallLight := domain.Device{ID: "light.hall", Domain: domain.DeviceDomain_LIGHT, AreaID: "hall"}

	tests := map[string]struct {
		path     domain.Path
		expected float64
	}{
		"same-area-diverse-domains": {
			// mean sim 0.8, area 1, diversity 2/2
			path: domain.Path{Steps: []domain.PathStep{
				{Device: motion},
				{Device: light, Similarity: 0.8},
			}},
			expected: 0.4*0.8 + 0.3*1 + 0.3*1,
		},
		"three-hops-same-area": {
			// mean sim (0.8+0.6)/2=0.7, area 1, diversity 3/3
			path: domain.Path{Steps: []domain.PathStep{
				{Device: motion},
				{Device: light, Similarity: 0.8},
				{Device: speaker, Similarity: 0.6},
			}},
			expected: 0.4*0.7 + 0.3*1 + 0.3*1,
		},
		"mixed-areas-lose-consistency-bonus": {
			path: domain.Path{Steps: []domain.PathStep{
				{Device: motion},
				{Device: hallLight, Similarity: 0.8},
			}},
			expected: 0.4*0.8 + 0.3*0 + 0.3*1,
		},
		"repeated-domain-reduces-diversity": {
			// domains: binary_sensor, light, light -> 2/3
			path: domain.Path{Steps: []domain.PathStep{
				{Device: motion},
				{Device: light, Similarity: 0.9},
				{Device: hallLight, Similarity: 0.9},
			}},
			expected: 0.4*0.9 + 0.3*0 + 0.3*(2.0/3.0),
		},
		"unknown-area-counts-as-inconsistent": {
			path: domain.Path{Steps: []domain.PathStep{
				{Device: domain.Device{ID: "sensor.orphan", Domain: domain.DeviceDomain_SENSOR}},
				{Device: domain.Device{ID: "light.orphan", Domain: domain.DeviceDomain_LIGHT}, Similarity: 0.7},
			}},
			expected: 0.4*0.7 + 0.3*0 + 0.3*1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := scorer.Score(tt.path)
			assert.InDelta(t, tt.expected, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestPathScorer_ClampsBonusInflatedSimilarity(t *testing.T) {
	scorer := NewPathScorer(ScoreWeights{Similarity: 1, AreaConsistency: 1, DomainDiversity: 1})

	// weights summing above 1 plus a bonus-inflated similarity must still land in [0,1]
	path := domain.Path{Steps: []domain.PathStep{
		{Device: domain.Device{ID: "a", Domain: domain.DeviceDomain_SENSOR, AreaID: "kitchen"}},
		{Device: domain.Device{ID: "b", Domain: domain.DeviceDomain_LIGHT, AreaID: "kitchen"}, Similarity: 1.1},
	}}

	assert.Equal(t, 1.0, scorer.Score(path))
}

func TestPathScorer_TooShortPathScoresZero(t *testing.T) {
	scorer := NewPathScorer(DefaultScoreWeights)
	assert.Equal(t, 0.0, scorer.Score(domain.Path{}))
}
