package model

// AllModels lists every persisted model for schema migration.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Label{},
		&Artist{},
		&Release{},
		&Song{},
		&Moderator{},
		&ModerationRecord{},
		&Platform{},
		&RoyaltyReport{},
		&Royalty{},
	}
}
