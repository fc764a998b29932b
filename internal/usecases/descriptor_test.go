package usecases

import (
	"testing"

	"github.com/hausgraph/autochain/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDescriptorBuilder_Build(t *testing.T) {
	builder := NewDescriptorBuilder()

	tests := map[string]struct {
		device   domain.Device
		expected string
	}{
		"full-device": {
			device: domain.Device{
				ID:           "binary_sensor.kitchen_motion",
				Domain:       domain.DeviceDomain_BINARY_SENSOR,
				DeviceClass:  "motion",
				AreaID:       "kitchen",
				Capabilities: []string{"occupancy", "motion"},
			},
			expected: "motion sensor that detects activity in kitchen area with motion, occupancy",
		},
		"missing-device-class": {
			device: domain.Device{
				ID:     "sensor.orphan",
				Domain: domain.DeviceDomain_SENSOR,
				AreaID: "living_room",
			},
			expected: "sensor device that measures conditions in living room area",
		},
		"missing-area": {
			device: domain.Device{
				ID:          "lock.entry",
				Domain:      domain.DeviceDomain_LOCK,
				DeviceClass: "door",
			},
			expected: "door lock that secures access in unknown area",
		},
		"missing-class-and-area": {
			device: domain.Device{
				ID:     "binary_sensor.mystery",
				Domain: domain.DeviceDomain_BINARY_SENSOR,
			},
			expected: "binary sensor device that detects activity in unknown area",
		},
		"capabilities-truncated-to-three": {
			device: domain.Device{
				ID:           "light.kitchen",
				Domain:       domain.DeviceDomain_LIGHT,
				DeviceClass:  "dimmable",
				AreaID:       "kitchen",
				Capabilities: []string{"transition", "brightness", "color_temp", "color"},
			},
			expected: "dimmable light that provides lighting in kitchen area with brightness, color, color_temp",
		},
		"unknown-domain-falls-back": {
			device: domain.Device{
				ID:          "water_heater.tank",
				Domain:      domain.DeviceDomain("water_heater"),
				DeviceClass: "boiler",
				AreaID:      "basement",
			},
			expected: "boiler device that operates in basement area",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, builder.Build(tt.device))
		})
	}
}

func TestDescriptorBuilder_Deterministic(t *testing.T) {
	builder := NewDescriptorBuilder()
	device := domain.Device{
		ID:           "light.kitchen",
		Domain:       domain.DeviceDomain_LIGHT,
		DeviceClass:  "dimmable",
		AreaID:       "kitchen",
		Capabilities: []string{"color_temp", "brightness", "transition"},
	}

	first := builder.Build(device)
	for range 50 {
		assert.Equal(t, first, builder.Build(device))
	}

	// capability order in the source record must not leak into the output
	shuffled := device
	shuffled.Capabilities = []string{"transition", "color_temp", "brightness"}
	assert.Equal(t, first, builder.Build(shuffled))
}

func TestDescriptorBuilder_NonEmptyForDegradedDevice(t *testing.T) {
	builder := NewDescriptorBuilder()
	got := builder.Build(domain.Device{ID: "sensor.bare", Domain: domain.DeviceDomain_SENSOR})
	assert.NotEmpty(t, got)
}
