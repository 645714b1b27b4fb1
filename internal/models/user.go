package models

import "gorm.io/gorm"

// Role values stored on a user record. RoleAdmin unlocks the /admin endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered MiAltar account.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role       string `json:"role" gorm:"type:varchar(20);default:user"`
	// Single-use password reset token, cleared once consumed.
	ResetToken       string `gorm:"index;type:varchar(64)"`
	ResetTokenExpiry int64  // Unix seconds; zero when no reset is pending
	gorm.Model              // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
