package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeviceEmbedding_IsFresh(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	maxAge := 720 * time.Hour

	tests := map[string]struct {
		embedding    DeviceEmbedding
		modelVersion string
		expected     bool
	}{
		"fresh": {
			embedding:    DeviceEmbedding{ModelVersion: "all-minilm-l6-v2-q8", GeneratedAt: now.Add(-time.Hour)},
			modelVersion: "all-minilm-l6-v2-q8",
			expected:     true,
		},
		"exactly-at-age-bound": {
			embedding:    DeviceEmbedding{ModelVersion: "all-minilm-l6-v2-q8", GeneratedAt: now.Add(-maxAge)},
			modelVersion: "all-minilm-l6-v2-q8",
			expected:     true,
		},
		"too-old": {
			embedding:    DeviceEmbedding{ModelVersion: "all-minilm-l6-v2-q8", GeneratedAt: now.Add(-maxAge - time.Second)},
			modelVersion: "all-minilm-l6-v2-q8",
			expected:     false,
		},
		"model-version-bumped": {
			embedding:    DeviceEmbedding{ModelVersion: "all-minilm-l6-v2-q8", GeneratedAt: now.Add(-time.Hour)},
			modelVersion: "all-minilm-l12-v2-q8",
			expected:     false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.embedding.IsFresh(tt.modelVersion, maxAge, now))
		})
	}
}

func TestDevice_SortedCapabilities(t *testing.T) {
	d := Device{
		ID:           "light.kitchen",
		Domain:       DeviceDomain_LIGHT,
		Capabilities: []string{"color_temp", "brightness", "transition"},
	}

	assert.Equal(t, []string{"brightness", "color_temp", "transition"}, d.SortedCapabilities())
	// input slice untouched
	assert.Equal(t, []string{"color_temp", "brightness", "transition"}, d.Capabilities)
}

func TestDevice_SameArea(t *testing.T) {
	kitchenLight := Device{ID: "light.kitchen", AreaID: "kitchen"}
	kitchenMotion := Device{ID: "binary_sensor.kitchen_motion", AreaID: "kitchen"}
	noArea := Device{ID: "sensor.orphan"}

	assert.True(t, kitchenLight.SameArea(kitchenMotion))
	assert.False(t, kitchenLight.SameArea(noArea))
	assert.False(t, noArea.SameArea(Device{ID: "sensor.other"}))
}
