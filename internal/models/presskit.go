package models

import "time"

// PressKit is the central aggregate a musician publishes: a document
// bundling media, social links, events, testimonials and contacts.
// The owning musician is set at creation and never reassigned.
type PressKit struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string `json:"title" gorm:"type:varchar(255)" validate:"required"`
	Description string `json:"description" gorm:"type:text"`
	Theme       string `json:"theme" gorm:"type:varchar(100)"`
	IsPublic    bool   `json:"isPublic"`
	MusicianID  string `json:"musicianId" gorm:"index;type:varchar(36)"`

	MediaItems   []MediaItem   `json:"mediaItems" gorm:"foreignKey:PressKitID"`
	SocialLinks  []SocialLink  `json:"socialLinks" gorm:"foreignKey:PressKitID"`
	Events       []Event       `json:"events" gorm:"foreignKey:PressKitID"`
	Testimonials []Testimonial `json:"testimonials" gorm:"foreignKey:PressKitID"`
	Contacts     []Contact     `json:"contacts" gorm:"foreignKey:PressKitID"`

	// Musician is only populated on the public view, where the owner's
	// profile is embedded instead of linked.
	Musician *Musician `json:"musician,omitempty" gorm:"foreignKey:MusicianID;references:ID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MediaItem is a single piece of media (audio, video, image, document)
// inside a press kit. Order defines the display sequence.
type MediaItem struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PressKitID   string `json:"pressKitId" gorm:"index;type:varchar(36)"`
	Type         string `json:"type" gorm:"type:varchar(50)"`
	Title        string `json:"title" gorm:"type:varchar(255)"`
	Description  string `json:"description" gorm:"type:text"`
	FileURL      string `json:"fileUrl" gorm:"type:varchar(500)"`
	ThumbnailURL string `json:"thumbnailUrl" gorm:"type:varchar(500)"`
	ExternalURL  string `json:"externalUrl" gorm:"type:varchar(500)"`
	Order        int    `json:"order" gorm:"column:sort_order"`
}

// SocialLink points at the musician's profile on an external platform.
type SocialLink struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PressKitID string `json:"pressKitId" gorm:"index;type:varchar(36)"`
	Platform   string `json:"platform" gorm:"type:varchar(100)"`
	URL        string `json:"url" gorm:"type:varchar(500)"`
}

// Event is a show or appearance listed on a press kit. The public view
// only exposes events whose date is in the future.
type Event struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PressKitID  string    `json:"pressKitId" gorm:"index;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255)"`
	Venue       string    `json:"venue" gorm:"type:varchar(255)"`
	City        string    `json:"city" gorm:"type:varchar(255)"`
	Country     string    `json:"country" gorm:"type:varchar(255)"`
	Date        time.Time `json:"date" gorm:"index"`
	Description string    `json:"description" gorm:"type:text"`
	TicketURL   string    `json:"ticketUrl" gorm:"type:varchar(500)"`
}

// Testimonial is a press quote attached to a press kit.
type Testimonial struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PressKitID string     `json:"pressKitId" gorm:"index;type:varchar(36)"`
	Quote      string     `json:"quote" gorm:"type:text"`
	Author     string     `json:"author" gorm:"type:varchar(255)"`
	Source     string     `json:"source" gorm:"type:varchar(255)"`
	Date       *time.Time `json:"date"`
}

// Contact is a booking/management contact listed on a press kit.
type Contact struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PressKitID string `json:"pressKitId" gorm:"index;type:varchar(36)"`
	Name       string `json:"name" gorm:"type:varchar(255)"`
	Role       string `json:"role" gorm:"type:varchar(255)"`
	Email      string `json:"email" gorm:"type:varchar(255)"`
	Phone      string `json:"phone" gorm:"type:varchar(100)"`
}
