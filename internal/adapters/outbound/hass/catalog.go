package hass

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/cleitonmarx/symbiont/depend"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hausgraph/autochain/internal/domain"
	"github.com/hausgraph/autochain/internal/telemetry"
)

// automationDomains are the entity domains that take part in chain discovery.
// Everything else (zones, persons, scripts, helpers...) is filtered out of the
// catalog.
var automationDomains = map[domain.DeviceDomain]struct{}{
	domain.DeviceDomain_BINARY_SENSOR: {},
	domain.DeviceDomain_SENSOR:        {},
	domain.DeviceDomain_LIGHT:         {},
	domain.DeviceDomain_SWITCH:        {},
	domain.DeviceDomain_CLIMATE:       {},
	domain.DeviceDomain_COVER:         {},
	domain.DeviceDomain_LOCK:          {},
	domain.DeviceDomain_MEDIA_PLAYER:  {},
	domain.DeviceDomain_FAN:           {},
	domain.DeviceDomain_CAMERA:        {},
	domain.DeviceDomain_VACUUM:        {},
}

// capabilityListAttributes are the state attributes whose string entries are
// treated as device capabilities.
var capabilityListAttributes = []string{
	"capabilities",
	"supported_color_modes",
	"hvac_modes",
	"preset_modes",
	"fan_modes",
}

// CatalogProvider implements domain.CatalogProvider on top of the Home Assistant
// REST API.
type CatalogProvider struct {
	client APIClient
}

// NewCatalogProvider creates a new CatalogProvider.
func NewCatalogProvider(client APIClient) CatalogProvider {
	return CatalogProvider{client: client}
}

// ListDevices returns every automation-relevant entity as a domain.Device.
func (cp CatalogProvider) ListDevices(ctx context.Context) ([]domain.Device, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	states, err := cp.client.States(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	var devices []domain.Device
	for _, state := range states {
		device, ok := toDevice(state)
		if !ok {
			continue
		}
		devices = append(devices, device)
	}

	span.SetAttributes(attribute.Int("devices", len(devices)))
	return devices, nil
}

// GetCapabilities returns the capability names of a single entity.
func (cp CatalogProvider) GetCapabilities(ctx context.Context, deviceID string) ([]string, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("device_id", deviceID),
	))
	defer span.End()

	state, err := cp.client.State(spanCtx, deviceID)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	return extractCapabilities(state.Attributes), nil
}

// toDevice maps one entity state to a domain.Device. Entities outside the
// automation domains report ok=false.
func toDevice(state State) (domain.Device, bool) {
	entityDomain, _, found := strings.Cut(state.EntityID, ".")
	if !found {
		return domain.Device{}, false
	}
	if _, ok := automationDomains[domain.DeviceDomain(entityDomain)]; !ok {
		return domain.Device{}, false
	}

	return domain.Device{
		ID:           state.EntityID,
		Domain:       domain.DeviceDomain(entityDomain),
		DeviceClass:  stringAttribute(state.Attributes, "device_class"),
		AreaID:       stringAttribute(state.Attributes, "area_id"),
		Capabilities: extractCapabilities(state.Attributes),
		Integration:  stringAttribute(state.Attributes, "integration"),
	}, true
}

func extractCapabilities(attributes map[string]any) []string {
	seen := map[string]struct{}{}
	var caps []string
	for _, attr := range capabilityListAttributes {
		entries, ok := attributes[attr].([]any)
		if !ok {
			continue
		}
		for _, entry := range entries {
			name, ok := entry.(string)
			if !ok || name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			caps = append(caps, name)
		}
	}
	sort.Strings(caps)
	return caps
}

func stringAttribute(attributes map[string]any, key string) string {
	value, _ := attributes[key].(string)
	return value
}

// InitCatalogProvider initializes the CatalogProvider dependency
type InitCatalogProvider struct {
	HttpClient *http.Client `resolve:""`
	HassHost   string       `config:"HASS_HOST"`
	HassToken  string       `config:"HASS_TOKEN"`
}

// Initialize registers the CatalogProvider
func (i InitCatalogProvider) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.CatalogProvider](NewCatalogProvider(
		NewAPIClient(i.HassHost, i.HassToken, i.HttpClient),
	))
	return ctx, nil
}
