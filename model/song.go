package model

import (
	"database/sql/driver"
	"encoding/json"
)

// Int64List is a JSON-encoded ordered id list for GORM columns.
type Int64List []int64

// Scan implements sql.Scanner.
func (l *Int64List) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*l = nil
		return nil
	}
	if len(bytes) == 0 || string(bytes) == "null" {
		*l = nil
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer.
func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// JSONMap is a free-form JSON document for GORM columns.
type JSONMap map[string]interface{}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*m = nil
		return nil
	}
	if len(bytes) == 0 || string(bytes) == "null" {
		*m = nil
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Song belongs to exactly one release. ArtistIDs is an ordered list of
// contributing artist ids, not a relational join. PathToFile is the audio
// object key and DurationSeconds its probed length; both are nil until a file
// is bound, and are always set together.
type Song struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ReleaseID        int64     `json:"releaseId" gorm:"not null;index"`
	Title            string    `json:"title" gorm:"size:255;not null"`
	ArtistIDs        Int64List `json:"artistIds" gorm:"type:json"`
	MusicAuthor      string    `json:"musicAuthor" gorm:"size:255;not null"`
	ParentalAdvisory bool      `json:"parentalAdvisory" gorm:"not null"`
	PlayCount        int64     `json:"playCount" gorm:"not null;default:0"`
	SongUPC          int64     `json:"songUpc" gorm:"not null;uniqueIndex"`
	Metadata         JSONMap   `json:"metadata" gorm:"type:json"`
	PathToFile       *string   `json:"pathToFile" gorm:"size:500"`
	DurationSeconds  *int      `json:"durationSeconds"`
}

// TableName sets the table name.
func (Song) TableName() string {
	return "songs"
}
