package model

import (
	"time"

	"distr/core/apperr"
)

// ModerationState is the review-workflow status of a release.
type ModerationState string

const (
	StateDraft             ModerationState = "DRAFT"
	StateOnReview          ModerationState = "ON_REVIEW"
	StateOnModeration      ModerationState = "ON_MODERATION"
	StateApproved          ModerationState = "APPROVED"
	StateRejected          ModerationState = "REJECTED"
	StateWaitingForChanges ModerationState = "WAITING_FOR_CHANGES"
)

// ParseModerationState rejects anything outside the known state set.
func ParseModerationState(s string) (ModerationState, error) {
	switch ModerationState(s) {
	case StateDraft, StateOnReview, StateOnModeration, StateApproved, StateRejected, StateWaitingForChanges:
		return ModerationState(s), nil
	}
	return "", apperr.Validation("unknown moderation state: %q", s)
}

// ReleaseType tags the commercial form of a release.
type ReleaseType string

const (
	ReleaseTypeSingle      ReleaseType = "SINGLE"
	ReleaseTypeEP          ReleaseType = "EP"
	ReleaseTypeAlbum       ReleaseType = "ALBUM"
	ReleaseTypeCompilation ReleaseType = "COMPILATION"
)

// ParseReleaseType rejects anything outside the known type set.
func ParseReleaseType(s string) (ReleaseType, error) {
	switch ReleaseType(s) {
	case ReleaseTypeSingle, ReleaseTypeEP, ReleaseTypeAlbum, ReleaseTypeCompilation:
		return ReleaseType(s), nil
	}
	return "", apperr.Validation("unknown release type: %q", s)
}

// Release is an album or single owned by one artist and routed through one label.
// CoverPath is the object-store key of the cover image, nil until uploaded.
// ReleaseUPC is nil only for drafts created before a code was allocated.
type Release struct {
	ID              int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string          `json:"name" gorm:"size:255;not null"`
	ArtistID        int64           `json:"artistId" gorm:"not null;index"`
	LabelID         int64           `json:"labelId" gorm:"not null;index"`
	Genre           string          `json:"genre" gorm:"size:100;not null"`
	ReleaseUPC      *int64          `json:"releaseUpc" gorm:"uniqueIndex"`
	Date            time.Time       `json:"date" gorm:"autoCreateTime"`
	ModerationState ModerationState `json:"moderationState" gorm:"size:50;not null;index"`
	ReleaseType     ReleaseType     `json:"releaseType" gorm:"size:50;not null"`
	CoverPath       *string         `json:"coverPath" gorm:"size:500"`
}

// TableName sets the table name.
func (Release) TableName() string {
	return "releases"
}
