package services

import (
	"fmt"

	"mialtar/internal/models"
	"mialtar/internal/repositories"
	"mialtar/pkg/mailer"
)

// SessionService handles business logic for saved altar arrangements.
type SessionService struct {
	sessionRepo repositories.SessionRepository
	userRepo    repositories.UserRepository
	notifier    *Notifier
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo repositories.SessionRepository, userRepo repositories.UserRepository, notifier *Notifier) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// ListSessions retrieves all sessions owned by the given user.
func (s *SessionService) ListSessions(username string) ([]models.Session, error) {
	return s.sessionRepo.GetByUsername(username)
}

// SaveSession upserts a session keyed by (owner, name). Saving twice under the
// same name leaves exactly one record. The activity email never fails the save.
func (s *SessionService) SaveSession(session *models.Session) error {
	if err := s.sessionRepo.Upsert(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.fireActivity(session.Username, fmt.Sprintf("Your altar %q was saved.", session.Name))
	return nil
}

// DeleteSession removes a session by name. Deleting a session that does not
// exist still succeeds.
func (s *SessionService) DeleteSession(username, name string) error {
	if err := s.sessionRepo.DeleteByName(username, name); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.fireActivity(username, fmt.Sprintf("Your altar %q was deleted.", name))
	return nil
}

// fireActivity sends an altar activity alert to the owner's email address.
func (s *SessionService) fireActivity(username, activity string) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return
	}
	subject, html := mailer.ActivityEmail(activity)
	s.notifier.Fire(user.Email, subject, html)
}
