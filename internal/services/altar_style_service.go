package services

import (
	"mialtar/internal/models"
	"mialtar/internal/repositories"
)

// AltarStyleService handles business logic for per-user background templates.
type AltarStyleService struct {
	repo repositories.AltarStyleRepository
}

// NewAltarStyleService creates a new AltarStyleService.
func NewAltarStyleService(repo repositories.AltarStyleRepository) *AltarStyleService {
	return &AltarStyleService{
		repo: repo,
	}
}

// ListAltarStyles retrieves all altar styles owned by the given user.
func (s *AltarStyleService) ListAltarStyles(username string) ([]models.AltarStyle, error) {
	return s.repo.GetByUsername(username)
}

// CreateAltarStyle inserts a style. A duplicate (owner, name) pair surfaces as
// repositories.ErrDuplicate from the store's unique index.
func (s *AltarStyleService) CreateAltarStyle(style *models.AltarStyle) error {
	return s.repo.Create(style)
}

// DeleteAltarStyle removes a style by ID, scoped to its owner.
func (s *AltarStyleService) DeleteAltarStyle(id, username string) error {
	return s.repo.Delete(id, username)
}
