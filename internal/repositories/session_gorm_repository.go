package repositories

import (
	"errors"
	"fmt"

	"mialtar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// GetByUsername retrieves all sessions owned by the given user.
func (r *GORMSessionRepository) GetByUsername(username string) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.Find(&sessions, "username = ?", username).Error; err != nil {
		return nil, fmt.Errorf("failed to get sessions for user %s: %w", username, err)
	}
	return sessions, nil
}

// GetByID retrieves a single session by its ID.
func (r *GORMSessionRepository) GetByID(id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session by ID %s: %w", id, err)
	}
	return &session, nil
}

// Upsert writes the session keyed by the (username, name) unique index using a
// single ON CONFLICT statement, so a concurrent save of the same name can
// never lose the record the way a delete-then-insert would.
func (r *GORMSessionRepository) Upsert(session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "altar_style", "timestamp", "updated_at"}),
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.Name, err)
	}
	return nil
}

// DeleteByName removes a session by (username, name). A zero-match delete is
// reported as success, matching the caller-facing contract.
func (r *GORMSessionRepository) DeleteByName(username, name string) error {
	if err := r.db.Delete(&models.Session{}, "username = ? AND name = ?", username, name).Error; err != nil {
		return fmt.Errorf("failed to delete session %s: %w", name, err)
	}
	return nil
}

// GetAll retrieves every session record, used by the admin overview.
func (r *GORMSessionRepository) GetAll() ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to get all sessions: %w", err)
	}
	return sessions, nil
}
