package repositories

import (
	"errors"
	"fmt"
	"time"

	"mialtar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSharingRepository is a GORM implementation of SharingRepository.
type GORMSharingRepository struct {
	db *gorm.DB
}

// NewGORMSharingRepository creates a new instance of GORMSharingRepository.
func NewGORMSharingRepository(db *gorm.DB) *GORMSharingRepository {
	return &GORMSharingRepository{
		db: db,
	}
}

// GetBySessionID retrieves the shared altar record of a session, if any.
func (r *GORMSharingRepository) GetBySessionID(sessionID string) (*models.SharedAltar, error) {
	var altar models.SharedAltar
	if err := r.db.First(&altar, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shared altar for session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shared altar for session %s: %w", sessionID, err)
	}
	return &altar, nil
}

// GetByShareID retrieves a shared altar by its public share ID, enabled or not.
func (r *GORMSharingRepository) GetByShareID(shareID string) (*models.SharedAltar, error) {
	var altar models.SharedAltar
	if err := r.db.First(&altar, "share_id = ?", shareID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shared altar %s: %w", shareID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shared altar %s: %w", shareID, err)
	}
	return &altar, nil
}

// Create inserts a new shared altar record. The session ID unique index keeps
// the session-to-share mapping one-to-one.
func (r *GORMSharingRepository) Create(altar *models.SharedAltar) error {
	if altar.ID == "" {
		altar.ID = uuid.New().String()
	}
	if err := r.db.Create(altar).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("shared altar for session %s: %w", altar.SessionID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create shared altar: %w", err)
	}
	return nil
}

// SetEnabled toggles the enabled flag of an existing shared altar.
func (r *GORMSharingRepository) SetEnabled(id string, enabled bool) error {
	res := r.db.Model(&models.SharedAltar{}).Where("id = ?", id).Update("enabled", enabled)
	if res.Error != nil {
		return fmt.Errorf("failed to update shared altar %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shared altar %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordView increments the view counter and stamps the last viewed time in a
// single UPDATE, then reads back the new count.
func (r *GORMSharingRepository) RecordView(id string) (int64, error) {
	now := time.Now()
	res := r.db.Model(&models.SharedAltar{}).Where("id = ?", id).Updates(map[string]interface{}{
		"view_count":  gorm.Expr("view_count + 1"),
		"last_viewed": now,
	})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to record view for shared altar %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("shared altar %s: %w", id, ErrNotFound)
	}

	var altar models.SharedAltar
	if err := r.db.First(&altar, "id = ?", id).Error; err != nil {
		return 0, fmt.Errorf("failed to reload shared altar %s: %w", id, err)
	}
	return altar.ViewCount, nil
}

// DeleteWithStories removes the shared altar and cascades to its stories.
func (r *GORMSharingRepository) DeleteWithStories(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SharedStory{}, "shared_altar_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SharedAltar{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete shared altar %s: %w", id, err)
	}
	return nil
}

// CreateStory inserts a visitor story.
func (r *GORMSharingRepository) CreateStory(story *models.SharedStory) error {
	if story.ID == "" {
		story.ID = uuid.New().String()
	}
	if err := r.db.Create(story).Error; err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}
	return nil
}

// GetApprovedStories returns the approved stories of a shared altar, newest first.
func (r *GORMSharingRepository) GetApprovedStories(sharedAltarID string) ([]models.SharedStory, error) {
	var stories []models.SharedStory
	err := r.db.Where("shared_altar_id = ? AND is_approved = ?", sharedAltarID, true).
		Order("created_at DESC").
		Find(&stories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get stories for shared altar %s: %w", sharedAltarID, err)
	}
	return stories, nil
}
