package certificate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableBackend rejects every write and misses every read, standing in
// for a misconfigured or flaky remote store
type unreachableBackend struct {
	puts int
}

func (u *unreachableBackend) Name() string { return "gcs" }

func (u *unreachableBackend) Put(ctx context.Context, certID string, userID uint, data []byte) (string, error) {
	u.puts++
	return "", errors.New("dial tcp: connection refused")
}

func (u *unreachableBackend) Get(ctx context.Context, certID string, userID uint) ([]byte, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func localOnlyStore(t *testing.T) *ArtifactStore {
	t.Helper()
	return &ArtifactStore{backends: []artifactBackend{
		&localBackend{dir: t.TempDir(), baseURL: "http://localhost:3000"},
	}}
}

func TestLocalBackendRoundTrip(t *testing.T) {
	store := localOnlyStore(t)
	ctx := context.Background()

	stored, err := store.Store(ctx, "cert123", 7, []byte("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "local", stored.Backend)
	assert.Equal(t, "http://localhost:3000/learning/certificates/cert123/download", stored.URL)

	data, err := store.Retrieve(ctx, "cert123", 7)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestStoreFallsBackWhenPrimaryWriteFails(t *testing.T) {
	primary := &unreachableBackend{}
	store := &ArtifactStore{backends: []artifactBackend{
		primary,
		&localBackend{dir: t.TempDir(), baseURL: "http://localhost:3000"},
	}}
	ctx := context.Background()

	stored, err := store.Store(ctx, "cert456", 7, []byte("pdf bytes"))
	require.NoError(t, err, "a failing primary must not fail the store")
	assert.Equal(t, 1, primary.puts, "primary should have been tried first")
	assert.Equal(t, "local", stored.Backend)

	// The artifact written through the fallback is retrievable
	data, err := store.Retrieve(ctx, "cert456", 7)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestStoreErrorsWhenAllBackendsFail(t *testing.T) {
	store := &ArtifactStore{backends: []artifactBackend{&unreachableBackend{}}}

	_, err := store.Store(context.Background(), "cert789", 7, []byte("pdf bytes"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestRetrieveMissIsNotFound(t *testing.T) {
	store := localOnlyStore(t)

	_, err := store.Retrieve(context.Background(), "nope", 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrimaryName(t *testing.T) {
	store := &ArtifactStore{backends: []artifactBackend{
		&unreachableBackend{},
		&localBackend{dir: t.TempDir(), baseURL: "http://localhost:3000"},
	}}
	assert.Equal(t, "gcs", store.Primary())
}
