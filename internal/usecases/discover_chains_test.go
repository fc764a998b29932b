package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/hausgraph/autochain/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDiscoverChains_PublishesRankedPaths(t *testing.T) {
	devices := []domain.Device{
		{ID: "binary_sensor.kitchen_motion", Domain: domain.DeviceDomain_BINARY_SENSOR, AreaID: "kitchen"},
		{ID: "light.kitchen", Domain: domain.DeviceDomain_LIGHT, AreaID: "kitchen"},
	}
	foundPaths := []domain.Path{
		{
			Steps: []domain.PathStep{
				{Device: devices[0]},
				{Device: devices[1], Similarity: 0.9},
			},
			Score: 0.95,
		},
	}

	catalog := &mockCatalog{}
	catalog.On("ListDevices", mock.Anything).Return(devices, nil)

	finder := &mockFinder{}
	finder.On("Execute", mock.Anything, []string{"binary_sensor.kitchen_motion"}, mock.Anything).Return(foundPaths, nil)

	fixedTime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	publisher := &mockPublisher{}
	publisher.On("PublishPaths", mock.Anything, mock.MatchedBy(func(event domain.PathsDiscoveredEvent) bool {
		return len(event.Paths) == 1 &&
			event.ModelVersion == "all-minilm-l6-v2-q8" &&
			event.DiscoveredAt.Equal(fixedTime) &&
			event.Paths[0].Score == 0.95 &&
			event.Paths[0].Depth == 1 &&
			len(event.Paths[0].DeviceIDs) == 2
	})).Return(nil)

	discoverer := NewDiscoverChainsImpl(
		catalog,
		finder,
		publisher,
		&fakeEncoder{version: "all-minilm-l6-v2-q8"},
		fixedTimeProvider{now: fixedTime},
		[]domain.DeviceDomain{domain.DeviceDomain_BINARY_SENSOR},
		DefaultSearchParams(),
	)

	paths, err := discoverer.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, foundPaths, paths)
	publisher.AssertExpectations(t)
	finder.AssertExpectations(t)
}

func TestDiscoverChains_NoTriggersSkipsSearchAndPublish(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("ListDevices", mock.Anything).Return([]domain.Device{
		{ID: "light.kitchen", Domain: domain.DeviceDomain_LIGHT},
	}, nil)

	finder := &mockFinder{}
	publisher := &mockPublisher{}

	discoverer := NewDiscoverChainsImpl(
		catalog,
		finder,
		publisher,
		&fakeEncoder{version: "v"},
		fixedTimeProvider{now: time.Now()},
		[]domain.DeviceDomain{domain.DeviceDomain_BINARY_SENSOR},
		DefaultSearchParams(),
	)

	paths, err := discoverer.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)
	finder.AssertNotCalled(t, "Execute")
	publisher.AssertNotCalled(t, "PublishPaths")
}

func TestDiscoverChains_EmptyResultIsNotPublished(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("ListDevices", mock.Anything).Return([]domain.Device{
		{ID: "sensor.attic", Domain: domain.DeviceDomain_SENSOR},
	}, nil)

	finder := &mockFinder{}
	finder.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	publisher := &mockPublisher{}

	discoverer := NewDiscoverChainsImpl(
		catalog,
		finder,
		publisher,
		&fakeEncoder{version: "v"},
		fixedTimeProvider{now: time.Now()},
		[]domain.DeviceDomain{domain.DeviceDomain_SENSOR},
		DefaultSearchParams(),
	)

	paths, err := discoverer.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)
	publisher.AssertNotCalled(t, "PublishPaths")
}

func TestDiscoverChains_FinderErrorPropagates(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("ListDevices", mock.Anything).Return([]domain.Device{
		{ID: "sensor.attic", Domain: domain.DeviceDomain_SENSOR},
	}, nil)

	finder := &mockFinder{}
	finder.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

	discoverer := NewDiscoverChainsImpl(
		catalog,
		finder,
		&mockPublisher{},
		&fakeEncoder{version: "v"},
		fixedTimeProvider{now: time.Now()},
		[]domain.DeviceDomain{domain.DeviceDomain_SENSOR},
		DefaultSearchParams(),
	)

	_, err := discoverer.Execute(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
