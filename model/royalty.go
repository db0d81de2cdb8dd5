package model

import "time"

// Platform is an external distribution platform.
type Platform struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex"`
}

// TableName sets the table name.
func (Platform) TableName() string {
	return "platforms"
}

// RoyaltyReport is a periodic statement from a platform, keyed by release UPC.
type RoyaltyReport struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ReleaseUPC int64     `json:"releaseUpc" gorm:"not null;index"`
	PlatformID int64     `json:"platformId" gorm:"not null;index"`
	Period     string    `json:"period" gorm:"size:50;not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName sets the table name.
func (RoyaltyReport) TableName() string {
	return "royalty_reports"
}

// Royalty is one line amount tied to a song, a label, a platform and a report.
// Rows are append-only financial records.
type Royalty struct {
	ID         int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	ReportID   int64   `json:"reportId" gorm:"not null;index"`
	SongID     int64   `json:"songId" gorm:"not null;index"`
	LabelID    int64   `json:"labelId" gorm:"not null;index"`
	PlatformID int64   `json:"platformId" gorm:"not null"`
	Amount     float64 `json:"amount" gorm:"type:decimal(15,2);not null"`
}

// TableName sets the table name.
func (Royalty) TableName() string {
	return "royalties"
}
