package model

// Label is a rights-holder profile owned by exactly one user.
type Label struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Country     string `json:"country" gorm:"size:100;not null"`
	ContactName string `json:"contactName" gorm:"size:255;not null"`
	Phone       string `json:"phone" gorm:"size:50;not null"`
	UserID      int64  `json:"userId" gorm:"not null;uniqueIndex"`
}

// TableName sets the table name.
func (Label) TableName() string {
	return "labels"
}
