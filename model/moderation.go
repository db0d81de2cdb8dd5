package model

import "time"

// Moderator is a reviewer profile owned by one user.
type Moderator struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name   string `json:"name" gorm:"size:255;not null"`
	UserID int64  `json:"userId" gorm:"not null;uniqueIndex"`
}

// TableName sets the table name.
func (Moderator) TableName() string {
	return "moderators"
}

// ModerationRecord is an append-only audit entry for one moderation decision.
// Rows are never updated or deleted.
type ModerationRecord struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Comment     string    `json:"comment" gorm:"type:text;not null"`
	ModeratorID int64     `json:"moderatorId" gorm:"not null;index"`
	ReleaseID   int64     `json:"releaseId" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName sets the table name.
func (ModerationRecord) TableName() string {
	return "moderation_records"
}
