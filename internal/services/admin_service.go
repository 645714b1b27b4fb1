package services

import (
	"log"

	"mialtar/internal/models"
	"mialtar/internal/repositories"
	"mialtar/pkg/mailer"
)

// AdminUserInfo is the admin-facing summary of one account. The overview
// leaves Email unset, so it serializes as {username} only there.
type AdminUserInfo struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// AdminSessionSummary is one session entry in the admin overview.
type AdminSessionSummary struct {
	Name       string               `json:"name"`
	Items      []models.SessionItem `json:"items"`
	AltarStyle string               `json:"altarStyle"`
	Timestamp  int64                `json:"timestamp"`
}

// NewsletterResult reports how a newsletter batch went.
type NewsletterResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// AdminService handles the admin-only overview and newsletter operations.
type AdminService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	sender      MailSender
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, sender MailSender) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sender:      sender,
	}
}

// Overview returns every username plus all sessions grouped by owner.
func (s *AdminService) Overview() ([]AdminUserInfo, map[string][]AdminSessionSummary, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, nil, err
	}
	sessions, err := s.sessionRepo.GetAll()
	if err != nil {
		return nil, nil, err
	}

	infos := make([]AdminUserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, AdminUserInfo{Username: u.Username})
	}

	grouped := make(map[string][]AdminSessionSummary)
	for _, sess := range sessions {
		grouped[sess.Username] = append(grouped[sess.Username], AdminSessionSummary{
			Name:       sess.Name,
			Items:      sess.Items,
			AltarStyle: sess.AltarStyle,
			Timestamp:  sess.Timestamp,
		})
	}
	return infos, grouped, nil
}

// ListUsers returns every account with its email, for the newsletter
// recipient picker.
func (s *AdminService) ListUsers() ([]AdminUserInfo, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}
	infos := make([]AdminUserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, AdminUserInfo{Username: u.Username, Email: u.Email})
	}
	return infos, nil
}

// SendNewsletter emails each recipient individually, tolerating and counting
// per-recipient failures instead of aborting the batch.
func (s *AdminService) SendNewsletter(subject, content string, recipients []string) (*NewsletterResult, error) {
	if s.sender == nil {
		return nil, ErrMailNotConfigured
	}

	html := mailer.NewsletterEmail(subject, content)
	result := &NewsletterResult{}
	for _, to := range recipients {
		if err := s.sender.Send(to, subject, html); err != nil {
			log.Printf("Warning: newsletter to %s failed: %v", to, err)
			result.Failed++
			continue
		}
		result.Sent++
	}
	return result, nil
}
