package model

// Artist is a performer profile owned by exactly one user and signed to one label.
type Artist struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string `json:"name" gorm:"size:255;not null"`
	RealName string `json:"realName" gorm:"size:255;not null"`
	Country  string `json:"country" gorm:"size:100;not null;index"`
	LabelID  int64  `json:"labelId" gorm:"not null;index"`
	UserID   int64  `json:"userId" gorm:"not null;uniqueIndex"`
}

// TableName sets the table name.
func (Artist) TableName() string {
	return "artists"
}
