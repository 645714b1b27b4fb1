package services_test

import (
	"errors"
	"testing"

	"mialtar/internal/models"
	"mialtar/internal/services"

	"github.com/stretchr/testify/assert"
)

// recordingQueue captures enqueued notification mail.
type recordingQueue struct {
	to       []string
	subjects []string
}

func (q *recordingQueue) Enqueue(to, subject, html string) error {
	q.to = append(q.to, to)
	q.subjects = append(q.subjects, subject)
	return nil
}

func newSessionService() (*services.SessionService, *MockSessionRepository, *MockUserRepository, *recordingQueue) {
	sessionRepo := new(MockSessionRepository)
	userRepo := new(MockUserRepository)
	queue := &recordingQueue{}
	service := services.NewSessionService(sessionRepo, userRepo, services.NewNotifier(queue, nil))
	return service, sessionRepo, userRepo, queue
}

func TestSessionService_SaveSession(t *testing.T) {
	service, sessionRepo, userRepo, queue := newSessionService()

	session := &models.Session{
		Username:   "alice",
		Name:       "Day1",
		Items:      []models.SessionItem{{Src: "/img/candle.png", X: 10, Y: 20, Size: 60}},
		AltarStyle: "Clásico",
		Timestamp:  1700000000000,
	}
	sessionRepo.On("Upsert", session).Return(nil).Once()
	userRepo.On("GetByUsername", "alice").Return(&models.User{Username: "alice", Email: "alice@x.com"}, nil).Once()

	err := service.SaveSession(session)

	assert.NoError(t, err)
	if assert.Len(t, queue.to, 1) {
		assert.Equal(t, "alice@x.com", queue.to[0])
	}
	sessionRepo.AssertExpectations(t)
}

func TestSessionService_SaveSession_RepoError(t *testing.T) {
	service, sessionRepo, _, queue := newSessionService()

	session := &models.Session{Username: "alice", Name: "Day1"}
	sessionRepo.On("Upsert", session).Return(errors.New("disk full")).Once()

	err := service.SaveSession(session)

	assert.Error(t, err)
	assert.Empty(t, queue.to) // A failed save sends nothing
}

func TestSessionService_DeleteSession(t *testing.T) {
	service, sessionRepo, userRepo, queue := newSessionService()

	sessionRepo.On("DeleteByName", "alice", "Day1").Return(nil).Once()
	userRepo.On("GetByUsername", "alice").Return(&models.User{Username: "alice", Email: "alice@x.com"}, nil).Once()

	err := service.DeleteSession("alice", "Day1")

	assert.NoError(t, err)
	assert.Len(t, queue.to, 1)
	sessionRepo.AssertExpectations(t)
}

func TestSessionService_DeleteSession_MissingIsNotAnError(t *testing.T) {
	service, sessionRepo, userRepo, _ := newSessionService()

	// The repository treats zero matched rows as success.
	sessionRepo.On("DeleteByName", "alice", "nunca").Return(nil).Once()
	userRepo.On("GetByUsername", "alice").Return(&models.User{Username: "alice", Email: "alice@x.com"}, nil).Once()

	err := service.DeleteSession("alice", "nunca")

	assert.NoError(t, err)
}

func TestSessionService_ActivityMailSkippedForUnknownUser(t *testing.T) {
	service, sessionRepo, userRepo, queue := newSessionService()

	session := &models.Session{Username: "ghost", Name: "Day1"}
	sessionRepo.On("Upsert", session).Return(nil).Once()
	userRepo.On("GetByUsername", "ghost").Return(nil, notFoundErr("user")).Once()

	err := service.SaveSession(session)

	assert.NoError(t, err)
	assert.Empty(t, queue.to)
}

func TestSessionService_ListSessions(t *testing.T) {
	service, sessionRepo, _, _ := newSessionService()

	stored := []models.Session{
		{Username: "alice", Name: "Day1"},
		{Username: "alice", Name: "Day2"},
	}
	sessionRepo.On("GetByUsername", "alice").Return(stored, nil).Once()

	sessions, err := service.ListSessions("alice")

	assert.NoError(t, err)
	assert.Len(t, sessions, 2)
	sessionRepo.AssertExpectations(t)
}

func TestNotifier_EmptyRecipientDropped(t *testing.T) {
	queue := &recordingQueue{}
	notifier := services.NewNotifier(queue, nil)

	notifier.Fire("", "subject", "<p>body</p>")

	assert.Empty(t, queue.to)
}
