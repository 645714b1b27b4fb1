package repositories

import "mialtar/internal/models"

// SessionRepository defines the interface for session data access.
type SessionRepository interface {
	GetByUsername(username string) ([]models.Session, error)
	GetByID(id string) (*models.Session, error)
	// Upsert writes the session keyed by (username, name) in a single atomic
	// statement: a new record is created, an existing one is replaced in place.
	Upsert(session *models.Session) error
	// DeleteByName removes the named session. Deleting a session that does not
	// exist is not an error.
	DeleteByName(username, name string) error
	GetAll() ([]models.Session, error)
}
