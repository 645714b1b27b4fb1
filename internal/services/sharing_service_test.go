package services_test

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"mialtar/internal/models"
	"mialtar/internal/repositories"
	"mialtar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock implementation of repositories.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetByUsername(username string) ([]models.Session, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Session), args.Error(1)
}

func (m *MockSessionRepository) GetByID(id string) (*models.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Upsert(session *models.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByName(username, name string) error {
	args := m.Called(username, name)
	return args.Error(0)
}

func (m *MockSessionRepository) GetAll() ([]models.Session, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Session), args.Error(1)
}

// MockSharingRepository is a mock implementation of repositories.SharingRepository
type MockSharingRepository struct {
	mock.Mock
}

func (m *MockSharingRepository) GetBySessionID(sessionID string) (*models.SharedAltar, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedAltar), args.Error(1)
}

func (m *MockSharingRepository) GetByShareID(shareID string) (*models.SharedAltar, error) {
	args := m.Called(shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedAltar), args.Error(1)
}

func (m *MockSharingRepository) Create(altar *models.SharedAltar) error {
	args := m.Called(altar)
	return args.Error(0)
}

func (m *MockSharingRepository) SetEnabled(id string, enabled bool) error {
	args := m.Called(id, enabled)
	return args.Error(0)
}

func (m *MockSharingRepository) RecordView(id string) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSharingRepository) DeleteWithStories(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockSharingRepository) CreateStory(story *models.SharedStory) error {
	args := m.Called(story)
	return args.Error(0)
}

func (m *MockSharingRepository) GetApprovedStories(sharedAltarID string) ([]models.SharedStory, error) {
	args := m.Called(sharedAltarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SharedStory), args.Error(1)
}

func ownedSessionFixture() *models.Session {
	return &models.Session{
		ID:         "sess-1",
		Username:   "alice",
		Name:       "Day1",
		Items:      []models.SessionItem{{Src: "/img/candle.png", X: 10, Y: 20, Size: 60}},
		AltarStyle: "Clásico",
		Timestamp:  1700000000000,
	}
}

func TestSharingService_GetSettings_Unshared(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	sessionRepo.On("GetByID", "sess-1").Return(ownedSessionFixture(), nil).Once()
	sharingRepo.On("GetBySessionID", "sess-1").Return(nil, notFoundErr("shared altar")).Once()

	settings, err := service.GetSettings("alice", "sess-1")

	assert.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.Nil(t, settings.ShareID)
	sessionRepo.AssertExpectations(t)
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_GetSettings_ForeignSession(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	// A session owned by someone else reads as not found, same as a missing one.
	sessionRepo.On("GetByID", "sess-1").Return(ownedSessionFixture(), nil).Once()

	_, err := service.GetSettings("mallory", "sess-1")

	assert.ErrorIs(t, err, repositories.ErrNotFound)
	sessionRepo.AssertExpectations(t)
}

func TestSharingService_UpdateSettings_FirstEnableMintsShareID(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	sessionRepo.On("GetByID", "sess-1").Return(ownedSessionFixture(), nil).Once()
	sharingRepo.On("GetBySessionID", "sess-1").Return(nil, notFoundErr("shared altar")).Once()
	sharingRepo.On("Create", mock.AnythingOfType("*models.SharedAltar")).Return(nil).Once()

	settings, err := service.UpdateSettings("alice", "sess-1", true)

	assert.NoError(t, err)
	assert.True(t, settings.Enabled)
	if assert.NotNil(t, settings.ShareID) {
		assert.Len(t, *settings.ShareID, 32)
		assert.Equal(t, strings.ToLower(*settings.ShareID), *settings.ShareID)
	}
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_UpdateSettings_EnableTwiceKeepsShareID(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	existing := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd1234abcd1234abcd1234abcd1234", Enabled: true}
	sessionRepo.On("GetByID", "sess-1").Return(ownedSessionFixture(), nil).Once()
	sharingRepo.On("GetBySessionID", "sess-1").Return(existing, nil).Once()
	// No Create and no SetEnabled: the record is already enabled.

	settings, err := service.UpdateSettings("alice", "sess-1", true)

	assert.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, existing.ShareID, *settings.ShareID)
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_UpdateSettings_DisableAndReenable(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	shareID := "abcd1234abcd1234abcd1234abcd1234"
	enabled := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: shareID, Enabled: true}
	disabled := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: shareID, Enabled: false}

	sessionRepo.On("GetByID", "sess-1").Return(ownedSessionFixture(), nil).Twice()
	sharingRepo.On("GetBySessionID", "sess-1").Return(enabled, nil).Once()
	sharingRepo.On("SetEnabled", "alt-1", false).Return(nil).Once()

	settings, err := service.UpdateSettings("alice", "sess-1", false)
	assert.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.Equal(t, shareID, *settings.ShareID)

	sharingRepo.On("GetBySessionID", "sess-1").Return(disabled, nil).Once()
	sharingRepo.On("SetEnabled", "alt-1", true).Return(nil).Once()

	settings, err = service.UpdateSettings("alice", "sess-1", true)
	assert.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, shareID, *settings.ShareID) // Same ID, never reissued
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_UpdateSettings_DisableUnsharedIsNoop(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	sessionRepo.On("GetByID", "sess-1").Return(ownedSessionFixture(), nil).Once()
	sharingRepo.On("GetBySessionID", "sess-1").Return(nil, notFoundErr("shared altar")).Once()

	settings, err := service.UpdateSettings("alice", "sess-1", false)

	assert.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.Nil(t, settings.ShareID)
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_DeleteSettings_Cascades(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd", Enabled: false}
	sessionRepo.On("GetByID", "sess-1").Return(ownedSessionFixture(), nil).Once()
	sharingRepo.On("GetBySessionID", "sess-1").Return(altar, nil).Once()
	sharingRepo.On("DeleteWithStories", "alt-1").Return(nil).Once()

	err := service.DeleteSettings("alice", "sess-1")

	assert.NoError(t, err)
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_GetPublicAltar(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd1234abcd1234abcd1234abcd1234", Enabled: true}
	sharingRepo.On("GetByShareID", altar.ShareID).Return(altar, nil).Once()
	sharingRepo.On("RecordView", "alt-1").Return(int64(1), nil).Once()
	sessionRepo.On("GetByID", "sess-1").Return(ownedSessionFixture(), nil).Once()

	view, err := service.GetPublicAltar(altar.ShareID)

	assert.NoError(t, err)
	assert.Equal(t, "Day1", view.SessionName)
	assert.Equal(t, "alice", view.CreatorName)
	assert.Equal(t, int64(1), view.ViewCount)
	assert.Equal(t, "/src/assets/altar-classic.jpg", view.BackgroundSrc)
	assert.Equal(t, int64(1700000000000), view.CreatedAt)
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_GetPublicAltar_UnknownStyleFallsBack(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	session := ownedSessionFixture()
	session.AltarStyle = "Mi estilo personalizado"
	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "ff00ff00ff00ff00ff00ff00ff00ff00", Enabled: true}
	sharingRepo.On("GetByShareID", altar.ShareID).Return(altar, nil).Once()
	sharingRepo.On("RecordView", "alt-1").Return(int64(5), nil).Once()
	sessionRepo.On("GetByID", "sess-1").Return(session, nil).Once()

	view, err := service.GetPublicAltar(altar.ShareID)

	assert.NoError(t, err)
	assert.Equal(t, "/src/assets/altar-classic.jpg", view.BackgroundSrc)
}

func TestSharingService_GetPublicAltar_DisabledIsNotFound(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd", Enabled: false}
	sharingRepo.On("GetByShareID", "abcd").Return(altar, nil).Once()

	_, err := service.GetPublicAltar("abcd")

	assert.ErrorIs(t, err, repositories.ErrNotFound)
	// The counter must not move for a disabled share.
	sharingRepo.AssertNotCalled(t, "RecordView", mock.Anything)
}

func TestSharingService_AddPublicStory_Validation(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	_, err := service.AddPublicStory("abcd", "   ", "", "1.2.3.4")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = service.AddPublicStory("abcd", strings.Repeat("x", 1001), "", "1.2.3.4")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// Validation failures never touch the store.
	sharingRepo.AssertNotCalled(t, "GetByShareID", mock.Anything)
}

func TestSharingService_AddPublicStory_DefaultsAuthor(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd", Enabled: true}
	sharingRepo.On("GetByShareID", "abcd").Return(altar, nil).Once()

	var stored *models.SharedStory
	sharingRepo.On("CreateStory", mock.AnythingOfType("*models.SharedStory")).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*models.SharedStory)
	}).Return(nil).Once()

	view, err := service.AddPublicStory("abcd", "  We miss you, abuela.  ", "   ", "1.2.3.4")

	assert.NoError(t, err)
	assert.Equal(t, "We miss you, abuela.", view.Text)
	assert.Equal(t, models.DefaultStoryAuthor, view.Author)
	if assert.NotNil(t, stored) {
		assert.Equal(t, "alt-1", stored.SharedAltarID)
		assert.Equal(t, "1.2.3.4", stored.IPAddress)
		assert.True(t, stored.IsApproved)
	}
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_AddPublicStory_MultibyteTextCountsCharacters(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd", Enabled: true}
	sharingRepo.On("GetByShareID", "abcd").Return(altar, nil).Once()
	sharingRepo.On("CreateStory", mock.AnythingOfType("*models.SharedStory")).Return(nil).Once()

	// 600 characters, 1200 bytes: well inside the 1000-character cap.
	text := strings.Repeat("ñ", 600)
	view, err := service.AddPublicStory("abcd", text, "", "1.2.3.4")

	assert.NoError(t, err)
	assert.Equal(t, text, view.Text)

	// One character over the cap is still rejected.
	_, err = service.AddPublicStory("abcd", strings.Repeat("ñ", models.MaxStoryTextLength+1), "", "1.2.3.4")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_AddPublicStory_MultibyteAuthorTruncatedWholeRunes(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd", Enabled: true}
	sharingRepo.On("GetByShareID", "abcd").Return(altar, nil).Once()
	sharingRepo.On("CreateStory", mock.AnythingOfType("*models.SharedStory")).Return(nil).Once()

	// Accented author over the cap: the cut must land on a rune boundary.
	view, err := service.AddPublicStory("abcd", "hola", "x"+strings.Repeat("á", 150), "")

	assert.NoError(t, err)
	assert.Equal(t, models.MaxStoryAuthorLength, utf8.RuneCountInString(view.Author))
	assert.True(t, utf8.ValidString(view.Author))
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_AddPublicStory_TruncatesAuthor(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd", Enabled: true}
	sharingRepo.On("GetByShareID", "abcd").Return(altar, nil).Once()
	sharingRepo.On("CreateStory", mock.AnythingOfType("*models.SharedStory")).Return(nil).Once()

	longAuthor := strings.Repeat("a", 150)
	view, err := service.AddPublicStory("abcd", "hello", longAuthor, "")

	assert.NoError(t, err)
	assert.Len(t, view.Author, models.MaxStoryAuthorLength)
}

func TestSharingService_GetPublicStories(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	altar := &models.SharedAltar{ID: "alt-1", SessionID: "sess-1", ShareID: "abcd", Enabled: true}
	now := time.Now()
	stories := []models.SharedStory{
		{Text: "newer", Author: "Ana", CreatedAt: now},
		{Text: "older", Author: "Luis", CreatedAt: now.Add(-time.Hour)},
	}
	sharingRepo.On("GetByShareID", "abcd").Return(altar, nil).Once()
	sharingRepo.On("GetApprovedStories", "alt-1").Return(stories, nil).Once()

	views, err := service.GetPublicStories("abcd")

	assert.NoError(t, err)
	if assert.Len(t, views, 2) {
		assert.Equal(t, "newer", views[0].Text)
		assert.Equal(t, "Ana", views[0].Author)
	}
	sharingRepo.AssertExpectations(t)
}

func TestSharingService_UpdateSettings_UnknownSession(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sharingRepo := new(MockSharingRepository)
	service := services.NewSharingService(sharingRepo, sessionRepo)

	sessionRepo.On("GetByID", "nope").Return(nil, fmt.Errorf("session with ID nope: %w", repositories.ErrNotFound)).Once()

	_, err := service.UpdateSettings("alice", "nope", true)

	assert.ErrorIs(t, err, repositories.ErrNotFound)
	sharingRepo.AssertNotCalled(t, "Create", mock.Anything)
}
