package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/hausgraph/autochain/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListDevices(ctx context.Context) ([]domain.Device, error) {
	args := m.Called(ctx)
	devices, _ := args.Get(0).([]domain.Device)
	return devices, args.Error(1)
}

func (m *mockCatalog) GetCapabilities(ctx context.Context, deviceID string) ([]string, error) {
	args := m.Called(ctx, deviceID)
	caps, _ := args.Get(0).([]string)
	return caps, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishPaths(ctx context.Context, event domain.PathsDiscoveredEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) Execute(ctx context.Context, triggerIDs []string, params SearchParams) ([]domain.Path, error) {
	args := m.Called(ctx, triggerIDs, params)
	paths, _ := args.Get(0).([]domain.Path)
	return paths, args.Error(1)
}

// fakeEncoder returns canned vectors by descriptor text, or a fixed fallback.
type fakeEncoder struct {
	version  string
	byText   map[string][]float64
	fallback []float64
	err      error
	batches  [][]string
}

func (f *fakeEncoder) EncodeBatch(_ context.Context, texts []string) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, texts)
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if vec, ok := f.byText[text]; ok {
			out[i] = vec
			continue
		}
		out[i] = f.fallback
	}
	return out, nil
}

func (f *fakeEncoder) ModelVersion() string {
	return f.version
}

// memEmbeddingRepo is an in-memory embedding store for use-case tests.
type memEmbeddingRepo struct {
	mu          sync.Mutex
	rows        map[string]domain.DeviceEmbedding
	now         func() time.Time
	upsertErrOn map[string]error
	freshErrOn  map[string]error
}

func newMemEmbeddingRepo(now func() time.Time) *memEmbeddingRepo {
	return &memEmbeddingRepo{
		rows: map[string]domain.DeviceEmbedding{},
		now:  now,
	}
}

func (r *memEmbeddingRepo) Get(_ context.Context, deviceID string) (domain.DeviceEmbedding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[deviceID]
	if !ok {
		return domain.DeviceEmbedding{}, domain.NewNotFoundErr("embedding not found")
	}
	return row, nil
}

func (r *memEmbeddingRepo) Upsert(_ context.Context, embedding domain.DeviceEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.upsertErrOn[embedding.DeviceID]; ok {
		return err
	}
	r.rows[embedding.DeviceID] = embedding
	return nil
}

func (r *memEmbeddingRepo) IsFresh(_ context.Context, deviceID string, modelVersion string, maxAge time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.freshErrOn[deviceID]; ok {
		return false, err
	}
	row, ok := r.rows[deviceID]
	if !ok {
		return false, nil
	}
	return row.IsFresh(modelVersion, maxAge, r.now()), nil
}

func (r *memEmbeddingRepo) All(_ context.Context, modelVersion string, maxAge time.Duration) (map[string][]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]float64, len(r.rows))
	for id, row := range r.rows {
		if !row.IsFresh(modelVersion, maxAge, r.now()) {
			continue
		}
		out[id] = row.Vector
	}
	return out, nil
}

func (r *memEmbeddingRepo) Purge(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := int64(len(r.rows))
	r.rows = map[string]domain.DeviceEmbedding{}
	return count, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f fixedTimeProvider) Now() time.Time {
	return f.now
}
