package repositories

import (
	"time"

	"presskit/internal/models"
)

// PressKitRepository defines the interface for press kit data access.
type PressKitRepository interface {
	GetAllByMusician(musicianID string) ([]models.PressKit, error)
	// GetByID loads the bare press kit row, without child collections.
	GetByID(id string) (*models.PressKit, error)
	// GetByIDWithChildren loads the press kit with all five child
	// collections eagerly loaded.
	GetByIDWithChildren(id string) (*models.PressKit, error)
	// GetPublicByID loads the press kit for the public view: all child
	// collections, events restricted to date >= now sorted ascending,
	// and the owning musician's profile embedded. The isPublic flag is
	// not checked here; callers decide what a private kit means.
	GetPublicByID(id string, now time.Time) (*models.PressKit, error)
	// Create persists the press kit and any child rows attached to it.
	Create(kit *models.PressKit) error
	// UpdateFields applies a partial patch; only the given columns change.
	UpdateFields(id string, fields map[string]interface{}) error
	// DeleteCascade removes every child row (including analytics) and
	// the press kit itself inside one transaction.
	DeleteCascade(id string) error
	CreateAnalytic(analytic *models.Analytic) error
}
