package certificate

import (
	"context"
	"errors"
	"log"

	"emirimo/models"
	"emirimo/models/learning"

	"gorm.io/gorm"
)

// Downloader gates certificate downloads on ownership and heals lost
// artifacts by regenerating them from the completion record. The record is
// authoritative; the stored PDF is only a cache of its rendering.
type Downloader struct {
	db    *gorm.DB
	gen   renderer
	store *ArtifactStore
}

func NewDownloader(db *gorm.DB, gen *Generator, store *ArtifactStore) *Downloader {
	return &Downloader{db: db, gen: gen, store: store}
}

// Download returns the certificate bytes for certID if it belongs to
// userID. A certificate that exists but belongs to someone else is
// indistinguishable from one that does not exist.
func (d *Downloader) Download(ctx context.Context, userID uint, certID string) ([]byte, error) {
	var record learning.CompletionRecord
	err := d.db.Where("user_id = ? AND certificate_id = ? AND is_deleted = ?", userID, certID, false).
		First(&record).Error
	if err != nil {
		return nil, ErrForbidden
	}

	data, err := d.store.Retrieve(ctx, certID, userID)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Artifact lost from every backend: regenerate from the record
	log.Printf("[CERTIFICATE] artifact %s missing from all backends, regenerating", certID)
	return d.regenerate(ctx, &record)
}

// regenerate re-renders the certificate from the completion record. The
// live resource is consulted best-effort for skills/duration, but the
// record's own snapshot fields win when the resource is gone, and the
// rendered date is always the recorded CompletedAt, never now.
func (d *Downloader) regenerate(ctx context.Context, record *learning.CompletionRecord) ([]byte, error) {
	var user models.User
	if err := d.db.Where("id = ? AND is_deleted = ?", record.UserID, false).First(&user).Error; err != nil {
		return nil, ErrNotFound
	}

	title := record.ResourceTitle
	category := record.ResourceCategory
	skills := record.SkillsEarnedNames()
	var duration int64

	var resource learning.LearningResource
	if err := d.db.Where("id = ? AND is_deleted = ?", record.ResourceID, false).First(&resource).Error; err == nil {
		if title == "" {
			title = resource.Title
		}
		if category == "" {
			category = resource.Category
		}
		if len(skills) == 0 {
			skills = resource.SkillNames()
		}
		duration = resource.Duration
	}

	if title == "" {
		// No snapshot and no live resource: nothing left to render from
		return nil, ErrNotFound
	}

	userName := user.Name
	if userName == "" {
		userName = user.Email
	}

	data, err := d.gen.Generate(CertificateData{
		UserName:         userName,
		ResourceTitle:    title,
		ResourceCategory: category,
		CompletedAt:      record.CompletedAt,
		CertificateID:    record.CertificateID,
		Skills:           skills,
		Duration:         duration,
	})
	if err != nil {
		return nil, err
	}

	stored, err := d.store.Store(ctx, record.CertificateID, record.UserID, data)
	if err != nil {
		// The bytes are good even if no backend would take them
		log.Printf("[CERTIFICATE] re-store of %s failed: %v", record.CertificateID, err)
		return data, nil
	}

	// Keep the recorded URL pointing at the primary store when it took the
	// write; a fallback URL is only adopted over a now-dead primary one
	if stored.Backend == d.store.Primary() && stored.URL != record.CertificateURL {
		if err := d.db.Model(record).Update("certificate_url", stored.URL).Error; err != nil {
			log.Printf("[CERTIFICATE] url update for %s failed: %v", record.CertificateID, err)
		}
	}

	return data, nil
}
