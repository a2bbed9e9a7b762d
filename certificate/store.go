package certificate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"emirimo/config"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// StoredArtifact reports where an artifact ended up and how to reach it
type StoredArtifact struct {
	URL     string
	Backend string
}

// artifactBackend is one place certificate bytes can live. Backends are
// tried in order on both the write and the read path.
type artifactBackend interface {
	Name() string
	Put(ctx context.Context, certID string, userID uint, data []byte) (string, error)
	Get(ctx context.Context, certID string, userID uint) ([]byte, error)
}

// ArtifactStore persists certificate PDFs across a priority-ordered list of
// backends. A write failure on one backend degrades to the next instead of
// failing the completion; issuance must not block on storage flakiness.
type ArtifactStore struct {
	backends []artifactBackend
}

// NewArtifactStore builds the backend chain from configuration: GCS first
// when a bucket is configured, local filesystem always last.
func NewArtifactStore() *ArtifactStore {
	var backends []artifactBackend
	if config.AppConfig.GCSBucket != "" {
		backends = append(backends, &gcsBackend{
			bucket:          config.AppConfig.GCSBucket,
			credentialsJSON: config.AppConfig.GCSCredentialsJSON,
		})
	}
	backends = append(backends, &localBackend{
		dir:     config.AppConfig.CertificatesDir,
		baseURL: config.AppConfig.PublicBaseURL,
	})
	return &ArtifactStore{backends: backends}
}

// Primary returns the name of the preferred backend
func (s *ArtifactStore) Primary() string {
	return s.backends[0].Name()
}

// Store writes the artifact to the first backend that accepts it
func (s *ArtifactStore) Store(ctx context.Context, certID string, userID uint, data []byte) (*StoredArtifact, error) {
	var lastErr error
	for _, b := range s.backends {
		url, err := b.Put(ctx, certID, userID, data)
		if err != nil {
			log.Printf("[ARTIFACT-STORE] %s write failed for certificate %s: %v", b.Name(), certID, err)
			lastErr = err
			continue
		}
		return &StoredArtifact{URL: url, Backend: b.Name()}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrStorage, lastErr)
}

// Retrieve reads the artifact from the first backend that has it.
// ErrNotFound means every backend missed and the caller should regenerate.
func (s *ArtifactStore) Retrieve(ctx context.Context, certID string, userID uint) ([]byte, error) {
	for _, b := range s.backends {
		data, err := b.Get(ctx, certID, userID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Printf("[ARTIFACT-STORE] %s read failed for certificate %s: %v", b.Name(), certID, err)
			}
			continue
		}
		return data, nil
	}
	return nil, ErrNotFound
}

// gcsBackend stores artifacts in a Google Cloud Storage bucket under
// certificates/<userID>/<certID>.pdf
type gcsBackend struct {
	bucket          string
	credentialsJSON string
}

func (g *gcsBackend) Name() string { return "gcs" }

func (g *gcsBackend) client(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC; explicit JSON only when provided (e.g. local dev)
	if strings.TrimSpace(g.credentialsJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(g.credentialsJSON)))
	}
	return storage.NewClient(ctx)
}

func (g *gcsBackend) objectName(certID string, userID uint) string {
	return fmt.Sprintf("certificates/%d/%s.pdf", userID, certID)
}

func (g *gcsBackend) Put(ctx context.Context, certID string, userID uint, data []byte) (string, error) {
	client, err := g.client(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	object := g.objectName(certID, userID)
	wc := client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	wc.ContentType = "application/pdf"
	if _, err := wc.Write(data); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object), nil
}

func (g *gcsBackend) Get(ctx context.Context, certID string, userID uint) ([]byte, error) {
	client, err := g.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	rc, err := client.Bucket(g.bucket).Object(g.objectName(certID, userID)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// localBackend stores one file per certificate under the configured
// directory. The directory is not web-accessible, so the URL points back at
// the server's own download endpoint.
type localBackend struct {
	dir     string
	baseURL string
}

func (l *localBackend) Name() string { return "local" }

func (l *localBackend) path(certID string) string {
	return filepath.Join(l.dir, certID+".pdf")
}

func (l *localBackend) Put(ctx context.Context, certID string, userID uint, data []byte) (string, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(l.path(certID), data, 0644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/learning/certificates/%s/download", l.baseURL, certID), nil
}

func (l *localBackend) Get(ctx context.Context, certID string, userID uint) ([]byte, error) {
	data, err := os.ReadFile(l.path(certID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
