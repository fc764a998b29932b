package domain

import "context"

// CatalogProvider exposes the household device inventory. The discovery core
// only reads; device lifecycle is owned entirely by the provider.
type CatalogProvider interface {
	// ListDevices returns the full catalog.
	ListDevices(ctx context.Context) ([]Device, error)
	// GetCapabilities returns the capability set of one device.
	GetCapabilities(ctx context.Context, deviceID string) ([]string, error)
}
