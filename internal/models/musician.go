package models

import "time"

// Musician is the public-facing artist profile behind a user account.
// It is the owner of press kits; ownership checks compare against its ID.
type Musician struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID    string `json:"userId" gorm:"uniqueIndex;type:varchar(36)"`
	StageName string `json:"stageName" gorm:"type:varchar(255)"`
	Bio       string `json:"bio" gorm:"type:text"`
	Location  string `json:"location" gorm:"type:varchar(255)"`
	Website   string `json:"website" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
