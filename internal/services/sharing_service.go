package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mialtar/internal/models"
	"mialtar/internal/repositories"
)

// defaultBackgrounds maps built-in altar style names to their background
// images for the public view. Unknown styles fall back to the classic one.
var defaultBackgrounds = map[string]string{
	"Clásico":     "/src/assets/altar-classic.jpg",
	"Moderno":     "/src/assets/altar-modern.jpg",
	"Tradicional": "/src/assets/altar-traditional.jpg",
}

// SharingSettings is the owner-facing view of a session's share state.
type SharingSettings struct {
	Enabled    bool       `json:"enabled"`
	ShareID    *string    `json:"shareId"`
	ViewCount  int64      `json:"viewCount"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	LastViewed *time.Time `json:"lastViewed,omitempty"`
}

// PublicAltar is the visitor-facing view of a shared session.
type PublicAltar struct {
	SessionName   string               `json:"sessionName"`
	CreatorName   string               `json:"creatorName"`
	Items         []models.SessionItem `json:"items"`
	AltarStyle    string               `json:"altarStyle"`
	BackgroundSrc string               `json:"backgroundSrc"`
	CreatedAt     int64                `json:"createdAt"`
	ViewCount     int64                `json:"viewCount"`
	ShareID       string               `json:"shareId"`
}

// StoryView is the public shape of a visitor story.
type StoryView struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// SharingService drives the share lifecycle of a session: unshared ->
// shared-enabled <-> shared-disabled -> removed. Every owner-facing operation
// re-verifies session ownership; public operations are keyed only by the
// opaque share ID and succeed only while sharing is enabled.
type SharingService struct {
	sharingRepo repositories.SharingRepository
	sessionRepo repositories.SessionRepository
}

// NewSharingService creates a new SharingService.
func NewSharingService(sharingRepo repositories.SharingRepository, sessionRepo repositories.SessionRepository) *SharingService {
	return &SharingService{
		sharingRepo: sharingRepo,
		sessionRepo: sessionRepo,
	}
}

// ownedSession loads a session and checks it belongs to username. A missing
// session and a foreign session are both reported as not found, so callers
// cannot probe for other users' session IDs.
func (s *SharingService) ownedSession(username, sessionID string) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Username != username {
		return nil, fmt.Errorf("session %s: %w", sessionID, repositories.ErrNotFound)
	}
	return session, nil
}

// GetSettings returns the share state of an owned session. An unshared
// session yields a disabled settings object with a nil share ID.
func (s *SharingService) GetSettings(username, sessionID string) (*SharingSettings, error) {
	if _, err := s.ownedSession(username, sessionID); err != nil {
		return nil, err
	}

	altar, err := s.sharingRepo.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &SharingSettings{Enabled: false}, nil
		}
		return nil, err
	}
	return settingsOf(altar), nil
}

// UpdateSettings enables or disables sharing. The first enable mints the share
// ID and creates the record; later toggles only flip the enabled flag and
// never reissue the ID. Disabling an unshared session is a no-op.
func (s *SharingService) UpdateSettings(username, sessionID string, enabled bool) (*SharingSettings, error) {
	if _, err := s.ownedSession(username, sessionID); err != nil {
		return nil, err
	}

	altar, err := s.sharingRepo.GetBySessionID(sessionID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	switch {
	case enabled && altar == nil:
		shareID, idErr := generateShareID()
		if idErr != nil {
			return nil, fmt.Errorf("failed to generate share ID: %w", idErr)
		}
		altar = &models.SharedAltar{
			SessionID: sessionID,
			ShareID:   shareID,
			Enabled:   true,
		}
		if err := s.sharingRepo.Create(altar); err != nil {
			return nil, err
		}
	case altar != nil && altar.Enabled != enabled:
		if err := s.sharingRepo.SetEnabled(altar.ID, enabled); err != nil {
			return nil, err
		}
		altar.Enabled = enabled
	case altar == nil:
		// Disabling a session that was never shared.
		return &SharingSettings{Enabled: false}, nil
	}

	return settingsOf(altar), nil
}

// DeleteSettings removes the share record and all its stories, returning the
// session to the unshared state. Deleting an unshared session succeeds.
func (s *SharingService) DeleteSettings(username, sessionID string) error {
	if _, err := s.ownedSession(username, sessionID); err != nil {
		return err
	}

	altar, err := s.sharingRepo.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.sharingRepo.DeleteWithStories(altar.ID)
}

// GetPublicAltar resolves an enabled share to its session for public viewing.
// Every successful call increments the view counter and stamps the last
// viewed time; a disabled or unknown share is not found.
func (s *SharingService) GetPublicAltar(shareID string) (*PublicAltar, error) {
	altar, err := s.enabledShare(shareID)
	if err != nil {
		return nil, err
	}

	viewCount, err := s.sharingRepo.RecordView(altar.ID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(altar.SessionID)
	if err != nil {
		return nil, err
	}

	background, ok := defaultBackgrounds[session.AltarStyle]
	if !ok {
		background = defaultBackgrounds["Clásico"]
	}

	return &PublicAltar{
		SessionName:   session.Name,
		CreatorName:   session.Username,
		Items:         session.Items,
		AltarStyle:    session.AltarStyle,
		BackgroundSrc: background,
		CreatedAt:     session.Timestamp,
		ViewCount:     viewCount,
		ShareID:       altar.ShareID,
	}, nil
}

// GetPublicStories returns the approved stories of an enabled share, newest
// first.
func (s *SharingService) GetPublicStories(shareID string) ([]StoryView, error) {
	altar, err := s.enabledShare(shareID)
	if err != nil {
		return nil, err
	}

	stories, err := s.sharingRepo.GetApprovedStories(altar.ID)
	if err != nil {
		return nil, err
	}

	views := make([]StoryView, 0, len(stories))
	for _, story := range stories {
		views = append(views, StoryView{
			Text:      story.Text,
			Author:    story.Author,
			CreatedAt: story.CreatedAt,
		})
	}
	return views, nil
}

// AddPublicStory records a visitor story on an enabled share. Text must be
// non-empty after trimming and within the length cap; a blank author defaults
// to "Anonymous". The submitter IP is stored for abuse mitigation.
func (s *SharingService) AddPublicStory(shareID, text, author, ip string) (*StoryView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("story text is required: %w", ErrInvalidInput)
	}
	// Caps count characters, not bytes: accented text must not lose headroom
	// to UTF-8 encoding, and truncation must not split a rune.
	if utf8.RuneCountInString(text) > models.MaxStoryTextLength {
		return nil, fmt.Errorf("story text is too long (max %d characters): %w", models.MaxStoryTextLength, ErrInvalidInput)
	}

	author = strings.TrimSpace(author)
	if author == "" {
		author = models.DefaultStoryAuthor
	}
	if utf8.RuneCountInString(author) > models.MaxStoryAuthorLength {
		author = string([]rune(author)[:models.MaxStoryAuthorLength])
	}

	altar, err := s.enabledShare(shareID)
	if err != nil {
		return nil, err
	}

	story := &models.SharedStory{
		SharedAltarID: altar.ID,
		Text:          text,
		Author:        author,
		IPAddress:     ip,
		IsApproved:    true, // Auto-approve; no moderation flow exists yet
		CreatedAt:     time.Now(),
	}
	if err := s.sharingRepo.CreateStory(story); err != nil {
		return nil, err
	}

	return &StoryView{
		Text:      story.Text,
		Author:    story.Author,
		CreatedAt: story.CreatedAt,
	}, nil
}

// enabledShare resolves a share ID that is currently enabled. Disabled shares
// are reported as not found so the public cannot tell them from deleted ones.
func (s *SharingService) enabledShare(shareID string) (*models.SharedAltar, error) {
	altar, err := s.sharingRepo.GetByShareID(shareID)
	if err != nil {
		return nil, err
	}
	if !altar.Enabled {
		return nil, fmt.Errorf("shared altar %s: %w", shareID, repositories.ErrNotFound)
	}
	return altar, nil
}

func settingsOf(altar *models.SharedAltar) *SharingSettings {
	shareID := altar.ShareID
	createdAt := altar.CreatedAt
	return &SharingSettings{
		Enabled:    altar.Enabled,
		ShareID:    &shareID,
		ViewCount:  altar.ViewCount,
		CreatedAt:  &createdAt,
		LastViewed: altar.LastViewed,
	}
}

// generateShareID returns 16 cryptographically random bytes as 32 hex chars,
// the opaque public handle of a shared altar.
func generateShareID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
