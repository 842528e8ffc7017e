package models

import "time"

// User represents a registered account. Every user owns exactly one
// Musician profile, created together at registration.
type User struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email    string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	Name     string    `json:"name" gorm:"type:varchar(255)" validate:"required"`
	Musician *Musician `json:"musician,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
