package repositories

import "mialtar/internal/models"

// SharingRepository defines the interface for shared altar and story data access.
type SharingRepository interface {
	GetBySessionID(sessionID string) (*models.SharedAltar, error)
	GetByShareID(shareID string) (*models.SharedAltar, error)
	Create(altar *models.SharedAltar) error
	SetEnabled(id string, enabled bool) error
	// RecordView atomically increments the view counter and stamps the last
	// viewed time, returning the updated view count.
	RecordView(id string) (int64, error)
	// DeleteWithStories removes the shared altar and all of its stories in one
	// transaction.
	DeleteWithStories(id string) error
	CreateStory(story *models.SharedStory) error
	// GetApprovedStories returns the approved stories of a shared altar,
	// newest first.
	GetApprovedStories(sharedAltarID string) ([]models.SharedStory, error)
}
