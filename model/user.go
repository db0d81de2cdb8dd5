package model

import (
	"time"

	"distr/core/apperr"
)

// UserType is the role tag attached to every account.
type UserType string

const (
	UserTypeArtist    UserType = "ARTIST"
	UserTypeLabel     UserType = "LABEL"
	UserTypeModerator UserType = "MODERATOR"
	UserTypeAdmin     UserType = "ADMIN"
	UserTypePlatform  UserType = "PLATFORM"
)

// ParseUserType rejects anything outside the known role set.
func ParseUserType(s string) (UserType, error) {
	switch UserType(s) {
	case UserTypeArtist, UserTypeLabel, UserTypeModerator, UserTypeAdmin, UserTypePlatform:
		return UserType(s), nil
	}
	return "", apperr.Validation("unknown user type: %q", s)
}

// User represents an account in the system.
type User struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Login            string    `json:"login" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash     string    `json:"-" gorm:"size:255;not null"`
	Type             UserType  `json:"type" gorm:"size:50;not null;index"`
	RegistrationDate time.Time `json:"registrationDate" gorm:"autoCreateTime"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Type == UserTypeAdmin
}
