package models

import "time"

// SessionItem is one decorative sprite placed on the altar canvas.
type SessionItem struct {
	Src      string  `json:"src"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Rotation float64 `json:"rotation"`
}

// Session is a named altar arrangement owned by one user.
// (Username, Name) is unique: saving under an existing name replaces the record.
// No gorm.Model embed: sessions are hard-deleted, and a soft-delete marker would
// keep the old row holding the (username, name) unique key.
type Session struct {
	ID         string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string        `json:"username" gorm:"index;uniqueIndex:idx_sessions_owner_name;type:varchar(100)"`
	Name       string        `json:"name" gorm:"uniqueIndex:idx_sessions_owner_name;type:varchar(200)" validate:"required"`
	Items      []SessionItem `json:"items" gorm:"serializer:json" validate:"required"`
	AltarStyle string        `json:"altarStyle" validate:"required"`
	Timestamp  int64         `json:"timestamp" validate:"required"` // Client-supplied save time, unix ms
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}
