package models

import "time"

// Analytic records a single public view of a press kit. Rows are
// append-only: they are never updated and never copied on duplication.
type Analytic struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PressKitID string    `json:"pressKitId" gorm:"index;type:varchar(36)"`
	VisitorIP  string    `json:"visitorIp" gorm:"type:varchar(64)"`
	Referrer   string    `json:"referrer" gorm:"type:varchar(500)"`
	UserAgent  string    `json:"userAgent" gorm:"type:varchar(500)"`
	CreatedAt  time.Time `json:"createdAt"`
}
