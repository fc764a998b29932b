package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_Validate(t *testing.T) {
	motion := Device{ID: "binary_sensor.kitchen_motion", Domain: DeviceDomain_BINARY_SENSOR, AreaID: "kitchen"}
	light := Device{ID: "light.kitchen", Domain: DeviceDomain_LIGHT, AreaID: "kitchen"}
	lock := Device{ID: "lock.entry", Domain: DeviceDomain_LOCK, AreaID: "entry"}

	tests := map[string]struct {
		path        Path
		expectedErr string
	}{
		"valid-two-device-chain": {
			path: Path{Steps: []PathStep{{Device: motion}, {Device: light, Similarity: 0.8}}},
		},
		"valid-three-device-chain": {
			path: Path{Steps: []PathStep{{Device: motion}, {Device: light, Similarity: 0.8}, {Device: lock, Similarity: 0.7}}},
		},
		"too-short": {
			path:        Path{Steps: []PathStep{{Device: motion}}},
			expectedErr: "path must contain between 2 and 5 devices, got 1",
		},
		"too-long": {
			path: Path{Steps: []PathStep{
				{Device: Device{ID: "a"}}, {Device: Device{ID: "b"}}, {Device: Device{ID: "c"}},
				{Device: Device{ID: "d"}}, {Device: Device{ID: "e"}}, {Device: Device{ID: "f"}},
			}},
			expectedErr: "path must contain between 2 and 5 devices, got 6",
		},
		"repeated-device": {
			path:        Path{Steps: []PathStep{{Device: motion}, {Device: light, Similarity: 0.8}, {Device: motion, Similarity: 0.9}}},
			expectedErr: "device binary_sensor.kitchen_motion appears twice in path",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.path.Validate()
			if tt.expectedErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.expectedErr)
			}
		})
	}
}

func TestPath_DepthAndIDs(t *testing.T) {
	p := Path{Steps: []PathStep{
		{Device: Device{ID: "binary_sensor.kitchen_motion"}},
		{Device: Device{ID: "light.kitchen"}, Similarity: 0.82},
		{Device: Device{ID: "media_player.kitchen"}, Similarity: 0.71},
	}}

	assert.Equal(t, 2, p.Depth())
	assert.Equal(t, []string{"binary_sensor.kitchen_motion", "light.kitchen", "media_player.kitchen"}, p.DeviceIDs())
	assert.Equal(t, "binary_sensor.kitchen_motion", p.TriggerID())
	assert.Equal(t, "binary_sensor.kitchen_motion>light.kitchen>media_player.kitchen", p.Key())
}
