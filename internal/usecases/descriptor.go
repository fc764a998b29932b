package usecases

import (
	"fmt"
	"strings"

	"github.com/hausgraph/autochain/internal/domain"
)

// maxDescriptorCapabilities bounds how many capability names are rendered into
// one descriptor sentence.
const maxDescriptorCapabilities = 3

// domainActions maps a device domain to the verb phrase used in its descriptor.
var domainActions = map[domain.DeviceDomain]string{
	domain.DeviceDomain_BINARY_SENSOR: "detects activity",
	domain.DeviceDomain_SENSOR:        "measures conditions",
	domain.DeviceDomain_LIGHT:         "provides lighting",
	domain.DeviceDomain_SWITCH:        "switches power",
	domain.DeviceDomain_CLIMATE:       "controls temperature",
	domain.DeviceDomain_COVER:         "opens and closes",
	domain.DeviceDomain_LOCK:          "secures access",
	domain.DeviceDomain_MEDIA_PLAYER:  "plays media",
	domain.DeviceDomain_FAN:           "circulates air",
	domain.DeviceDomain_CAMERA:        "captures video",
	domain.DeviceDomain_VACUUM:        "cleans floors",
}

// domainNouns maps a device domain to the noun used when a device class is
// present ("motion" + "sensor" -> "motion sensor").
var domainNouns = map[domain.DeviceDomain]string{
	domain.DeviceDomain_BINARY_SENSOR: "sensor",
	domain.DeviceDomain_SENSOR:        "sensor",
	domain.DeviceDomain_LIGHT:         "light",
	domain.DeviceDomain_SWITCH:        "switch",
	domain.DeviceDomain_CLIMATE:       "thermostat",
	domain.DeviceDomain_COVER:         "cover",
	domain.DeviceDomain_LOCK:          "lock",
	domain.DeviceDomain_MEDIA_PLAYER:  "media player",
	domain.DeviceDomain_FAN:           "fan",
	domain.DeviceDomain_CAMERA:        "camera",
	domain.DeviceDomain_VACUUM:        "vacuum",
}

// DescriptorBuilder turns one catalog device into the short natural-language
// sentence used as embedding input.
//
// The output is the sole input of the expensive encoding step, so it must be
// byte-identical for identical devices: every piece of it is derived from the
// device fields through fixed maps and lexical sorting, never from clocks,
// randomness or map iteration order.
type DescriptorBuilder struct{}

// NewDescriptorBuilder creates a new DescriptorBuilder.
func NewDescriptorBuilder() DescriptorBuilder {
	return DescriptorBuilder{}
}

// Build renders the descriptor sentence for a device:
//
//	"<friendly class> that <action> in <area> area[ with <up to 3 capabilities>]"
//
// Missing fields degrade instead of failing: an absent device class falls back
// to "<domain> device", an absent area renders as "unknown area".
func (db DescriptorBuilder) Build(device domain.Device) string {
	var b strings.Builder

	b.WriteString(db.friendlyClass(device))
	b.WriteString(" that ")
	b.WriteString(db.action(device))
	b.WriteString(" in ")
	b.WriteString(db.area(device))
	b.WriteString(" area")

	if caps := device.SortedCapabilities(); len(caps) > 0 {
		if len(caps) > maxDescriptorCapabilities {
			caps = caps[:maxDescriptorCapabilities]
		}
		b.WriteString(" with ")
		b.WriteString(strings.Join(caps, ", "))
	}

	return b.String()
}

func (db DescriptorBuilder) friendlyClass(device domain.Device) string {
	if device.DeviceClass == "" {
		return fmt.Sprintf("%s device", humanize(string(device.Domain)))
	}
	noun, ok := domainNouns[device.Domain]
	if !ok {
		noun = "device"
	}
	return fmt.Sprintf("%s %s", humanize(device.DeviceClass), noun)
}

func (db DescriptorBuilder) action(device domain.Device) string {
	if action, ok := domainActions[device.Domain]; ok {
		return action
	}
	return "operates"
}

func (db DescriptorBuilder) area(device domain.Device) string {
	if device.AreaID == "" {
		return "unknown"
	}
	return humanize(device.AreaID)
}

// humanize converts snake_case catalog identifiers to readable words.
func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
