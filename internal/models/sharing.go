package models

import "time"

const (
	// MaxStoryTextLength caps visitor story text.
	MaxStoryTextLength = 1000
	// MaxStoryAuthorLength caps the visitor-supplied author name.
	MaxStoryAuthorLength = 100
	// DefaultStoryAuthor is used when a visitor leaves the author field blank.
	DefaultStoryAuthor = "Anonymous"
)

// SharedAltar maps a session to its public share link. At most one record per
// session. The ShareID is the only public handle; the record is reachable by
// visitors only while Enabled is true.
type SharedAltar struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID  string     `json:"sessionId" gorm:"uniqueIndex;type:varchar(36)"`
	ShareID    string     `json:"shareId" gorm:"uniqueIndex;type:varchar(32)"`
	Enabled    bool       `json:"enabled" gorm:"default:true"`
	ViewCount  int64      `json:"viewCount"`
	LastViewed *time.Time `json:"lastViewed"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// SharedStory is a visitor-submitted memory attached to a shared altar.
// Never mutated after creation; deleted in cascade with its parent.
type SharedStory struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SharedAltarID string    `json:"sharedAltarId" gorm:"index;type:varchar(36)"`
	Text          string    `json:"text" gorm:"type:varchar(1000)"`
	Author        string    `json:"author" gorm:"type:varchar(100);default:Anonymous"`
	IPAddress     string    `json:"-" gorm:"type:varchar(45)"` // Kept for abuse mitigation, never exposed
	IsApproved    bool      `json:"isApproved" gorm:"default:true"`
	CreatedAt     time.Time `json:"createdAt"`
}
