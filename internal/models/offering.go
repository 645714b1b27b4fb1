package models

import "time"

// Offering is a placeable sprite asset in the global catalog, not owner-scoped.
type Offering struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_offerings_name_category;type:varchar(200)" validate:"required"`
	Category  string    `json:"category" gorm:"uniqueIndex:idx_offerings_name_category;type:varchar(100)" validate:"required"`
	Src       string    `json:"src" validate:"required"` // Sprite image reference
	CreatedAt time.Time `json:"createdAt"`
}
