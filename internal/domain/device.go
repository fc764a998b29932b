package domain

import "sort"

// DeviceDomain is the coarse category a device belongs to (light, sensor, climate...).
type DeviceDomain string

const (
	DeviceDomain_BINARY_SENSOR DeviceDomain = "binary_sensor"
	DeviceDomain_SENSOR        DeviceDomain = "sensor"
	DeviceDomain_LIGHT         DeviceDomain = "light"
	DeviceDomain_SWITCH        DeviceDomain = "switch"
	DeviceDomain_CLIMATE       DeviceDomain = "climate"
	DeviceDomain_COVER         DeviceDomain = "cover"
	DeviceDomain_LOCK          DeviceDomain = "lock"
	DeviceDomain_MEDIA_PLAYER  DeviceDomain = "media_player"
	DeviceDomain_FAN           DeviceDomain = "fan"
	DeviceDomain_CAMERA        DeviceDomain = "camera"
	DeviceDomain_VACUUM        DeviceDomain = "vacuum"
)

// Device is one entry of the smart-device catalog. The catalog provider owns the
// lifecycle; within one discovery run a Device is treated as immutable.
//
// DeviceClass and AreaID are optional in the source catalog. An empty string means
// the field is absent; consumers must apply their own documented fallback instead
// of scattering nil checks (the descriptor builder renders "unknown area" and a
// per-domain generic class label).
type Device struct {
	ID           string
	Domain       DeviceDomain
	DeviceClass  string
	AreaID       string
	Capabilities []string
	Integration  string
}

// Validate checks the minimal shape the discovery core relies on.
func (d Device) Validate() error {
	if d.ID == "" {
		return NewValidationErr("device id is required")
	}
	if d.Domain == "" {
		return NewValidationErr("device domain is required")
	}
	return nil
}

// SortedCapabilities returns the capability names in lexical order. Descriptor
// generation depends on this ordering being stable across runs.
func (d Device) SortedCapabilities() []string {
	caps := make([]string, len(d.Capabilities))
	copy(caps, d.Capabilities)
	sort.Strings(caps)
	return caps
}

// SameArea reports whether both devices carry the same known area.
func (d Device) SameArea(other Device) bool {
	return d.AreaID != "" && d.AreaID == other.AreaID
}
