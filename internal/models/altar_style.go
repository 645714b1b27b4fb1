package models

import "time"

// AltarStyle is a reusable background template owned by one user.
type AltarStyle struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex:idx_styles_owner_name;type:varchar(100)"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_styles_owner_name;type:varchar(200)" validate:"required"`
	Value     string    `json:"value" validate:"required"`
	Image     string    `json:"image" validate:"required"` // Background image reference (URL or data URI)
	CreatedAt time.Time `json:"createdAt"`
}
