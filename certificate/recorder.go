package certificate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"emirimo/models"
	"emirimo/models/learning"

	"gorm.io/gorm"
)

// renderer is what the recorder needs from the PDF generator
type renderer interface {
	Generate(data CertificateData) ([]byte, error)
}

// ExternalResolver fetches learning resource metadata from the external
// content source (YouTube) when a reference is unknown locally
type ExternalResolver interface {
	FetchResource(ctx context.Context, externalID string) (*learning.LearningResource, error)
}

// Result is the outcome of a completion request. AlreadyCompleted means the
// call was an idempotent replay: the certificate id is the original one and
// no new record or artifact was produced.
type Result struct {
	Completed        bool     `json:"completed"`
	AlreadyCompleted bool     `json:"already_completed"`
	CertificateID    string   `json:"certificate_id"`
	CertificateURL   string   `json:"certificate_url"`
	SkillsEarned     []string `json:"skills_earned"`
	ResourceTitle    string   `json:"resource_title"`
}

// Recorder guarantees at-most-one completion record per (user, resource)
// pair and issues the certificate for it. Steps run strictly in order:
// resolve resource, check existing, render, store, insert record, union
// skills - each step feeds or short-circuits the next.
type Recorder struct {
	db       *gorm.DB
	gen      renderer
	store    *ArtifactStore
	external ExternalResolver
	salt     string
}

// NewRecorder wires the completion recorder. external may be nil when no
// content source is configured; unknown references then get placeholder
// resources.
func NewRecorder(db *gorm.DB, gen *Generator, store *ArtifactStore, external ExternalResolver, salt string) *Recorder {
	return &Recorder{db: db, gen: gen, store: store, external: external, salt: salt}
}

// CertificateID derives the stable certificate id for a (user, resource)
// pair. Deterministic so that concurrent or retried completions of the same
// pair converge on the same id.
func (r *Recorder) CertificateID(userID, resourceID uint) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%d:%s", userID, resourceID, r.salt)))
	return hex.EncodeToString(sum[:])[:32]
}

// Record marks the resource completed for the user and returns the
// certificate. Calling it again for the same pair returns the original
// certificate without doing any new work.
func (r *Recorder) Record(ctx context.Context, userID uint, resourceRef string) (*Result, error) {
	resource, err := r.ResolveResource(ctx, resourceRef)
	if err != nil {
		return nil, err
	}

	// Idempotent replay: existing record short-circuits everything
	var existing learning.CompletionRecord
	if err := r.db.Where("user_id = ? AND resource_id = ? AND is_deleted = ?", userID, resource.ID, false).
		First(&existing).Error; err == nil {
		return &Result{
			Completed:        true,
			AlreadyCompleted: true,
			CertificateID:    existing.CertificateID,
			CertificateURL:   existing.CertificateURL,
			SkillsEarned:     existing.SkillsEarnedNames(),
			ResourceTitle:    existing.ResourceTitle,
		}, nil
	}

	var user models.User
	if err := r.db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, ErrNotFound
	}

	userName := user.Name
	if userName == "" {
		userName = user.Email
	}
	title := resource.Title
	if title == "" {
		title = "Course"
	}
	skills := resource.SkillNames()
	completedAt := time.Now().UTC().Truncate(time.Second)
	certID := r.CertificateID(userID, resource.ID)

	pdf, err := r.gen.Generate(CertificateData{
		UserName:         userName,
		ResourceTitle:    title,
		ResourceCategory: resource.Category,
		CompletedAt:      completedAt,
		CertificateID:    certID,
		Skills:           skills,
		Duration:         resource.Duration,
	})
	if err != nil {
		return nil, err
	}

	stored, err := r.store.Store(ctx, certID, userID, pdf)
	if err != nil {
		return nil, err
	}

	skillsJSON, _ := json.Marshal(skills)
	record := learning.CompletionRecord{
		UserID:           userID,
		ResourceID:       resource.ID,
		ResourceTitle:    title,
		ResourceCategory: resource.Category,
		CompletedAt:      completedAt,
		CertificateID:    certID,
		CertificateURL:   stored.URL,
		SkillsEarned:     skillsJSON,
		Progress:         100,
	}

	if err := r.insertRecord(&record, userID, resource.ID); err != nil {
		if errors.Is(err, errLostRace) {
			// A concurrent completion of the same pair won the insert; its
			// record is authoritative and carries the same deterministic id
			var winner learning.CompletionRecord
			if err := r.db.Where("user_id = ? AND resource_id = ?", userID, resource.ID).First(&winner).Error; err != nil {
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			return &Result{
				Completed:        true,
				AlreadyCompleted: true,
				CertificateID:    winner.CertificateID,
				CertificateURL:   winner.CertificateURL,
				SkillsEarned:     winner.SkillsEarnedNames(),
				ResourceTitle:    winner.ResourceTitle,
			}, nil
		}
		return nil, err
	}

	if err := r.unionSkills(&user, skills); err != nil {
		// Record and artifact exist; skill merge failure is not worth
		// failing the completion over
		log.Printf("[COMPLETION] skill union failed for user %d: %v", userID, err)
	}

	return &Result{
		Completed:      true,
		CertificateID:  certID,
		CertificateURL: stored.URL,
		SkillsEarned:   skills,
		ResourceTitle:  title,
	}, nil
}

var errLostRace = errors.New("lost completion insert race")

// insertRecord writes the completion record, retrying once with a read-back
// before giving up. A duplicate-key collision on (user_id, resource_id) is
// reported as errLostRace, not a failure.
func (r *Recorder) insertRecord(record *learning.CompletionRecord, userID, resourceID uint) error {
	err := r.db.Create(record).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errLostRace
	}

	log.Printf("[COMPLETION] record insert failed for user %d resource %d, retrying: %v", userID, resourceID, err)
	if err := r.db.Create(record).Error; err == nil {
		return nil
	}

	// Verify by read-back before surfacing: the first write may have
	// landed despite the reported error
	var check learning.CompletionRecord
	if readErr := r.db.Where("user_id = ? AND resource_id = ?", userID, resourceID).First(&check).Error; readErr == nil {
		*record = check
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// ResolveResource turns a resource reference (local id or external video id)
// into a local row, fetching from the external source or synthesizing a
// placeholder as needed. Completion always succeeds over strict referential
// integrity, so this only fails on database errors.
func (r *Recorder) ResolveResource(ctx context.Context, ref string) (*learning.LearningResource, error) {
	var resource learning.LearningResource

	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&resource).Error; err == nil {
			return &resource, nil
		}
	}

	if err := r.db.Where("external_id = ? AND is_deleted = ?", ref, false).First(&resource).Error; err == nil {
		return &resource, nil
	}

	if r.external != nil {
		if fetched, err := r.external.FetchResource(ctx, ref); err == nil {
			fetched.FetchedAt = time.Now()
			if err := r.db.Where("external_id = ?", fetched.ExternalID).
				Attrs(*fetched).FirstOrCreate(&resource).Error; err == nil {
				return &resource, nil
			}
		} else {
			log.Printf("[COMPLETION] external resolve failed for %q: %v", ref, err)
		}
	}

	// Placeholder: the completion signal matters more than the catalog entry
	placeholder := learning.LearningResource{
		ExternalID: ref,
		Title:      "Resource " + ref,
		Category:   "technical",
		FetchedAt:  time.Now(),
	}
	if err := r.db.Where("external_id = ?", ref).Attrs(placeholder).FirstOrCreate(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// unionSkills merges earned skill names into the user's skill list without
// duplicating existing names
func (r *Recorder) unionSkills(user *models.User, earned []string) error {
	if len(earned) == 0 {
		return nil
	}

	skills := user.SkillList()
	have := make(map[string]bool, len(skills))
	for _, s := range skills {
		have[s.Name] = true
	}

	added := false
	for _, name := range earned {
		if name == "" || have[name] {
			continue
		}
		skills = append(skills, models.Skill{Name: name, Level: "beginner"})
		have[name] = true
		added = true
	}
	if !added {
		return nil
	}

	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	return r.db.Model(user).Update("skills", skillsJSON).Error
}
