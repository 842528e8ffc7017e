package repositories

import (
	"fmt"
	"time"

	"presskit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPressKitRepository is a GORM implementation of PressKitRepository.
type GORMPressKitRepository struct {
	db *gorm.DB
}

// NewGORMPressKitRepository creates a new instance of GORMPressKitRepository.
func NewGORMPressKitRepository(db *gorm.DB) *GORMPressKitRepository {
	return &GORMPressKitRepository{
		db: db,
	}
}

// GetAllByMusician retrieves every press kit owned by a musician,
// most-recently-updated first.
func (r *GORMPressKitRepository) GetAllByMusician(musicianID string) ([]models.PressKit, error) {
	var kits []models.PressKit
	err := r.db.
		Where("musician_id = ?", musicianID).
		Order("updated_at DESC").
		Find(&kits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get press kits for musician %s: %w", musicianID, err)
	}
	return kits, nil
}

// GetByID retrieves a single press kit row by its ID.
func (r *GORMPressKitRepository) GetByID(id string) (*models.PressKit, error) {
	var kit models.PressKit
	if err := r.db.First(&kit, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("press kit with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get press kit by ID %s: %w", id, err)
	}
	return &kit, nil
}

// GetByIDWithChildren retrieves a press kit with all child collections.
// Media items come back in display order.
func (r *GORMPressKitRepository) GetByIDWithChildren(id string) (*models.PressKit, error) {
	var kit models.PressKit
	err := r.db.
		Preload("MediaItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("SocialLinks").
		Preload("Events").
		Preload("Testimonials").
		Preload("Contacts").
		First(&kit, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("press kit with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get press kit by ID %s: %w", id, err)
	}
	return &kit, nil
}

// GetPublicByID retrieves a press kit shaped for the public view:
// upcoming events only (sorted soonest first) and the owning musician's
// public profile embedded.
func (r *GORMPressKitRepository) GetPublicByID(id string, now time.Time) (*models.PressKit, error) {
	var kit models.PressKit
	err := r.db.
		Preload("MediaItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("SocialLinks").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Where("date >= ?", now).Order("date ASC")
		}).
		Preload("Testimonials").
		Preload("Contacts").
		Preload("Musician", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "stage_name", "bio", "location", "website")
		}).
		First(&kit, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("press kit with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get public press kit by ID %s: %w", id, err)
	}
	return &kit, nil
}

// Create creates a new press kit in the database. Any child rows
// attached to the kit (as produced by duplication) are created with it
// in the same transaction, rebound to the kit's ID.
func (r *GORMPressKitRepository) Create(kit *models.PressKit) error {
	if kit.ID == "" {
		kit.ID = uuid.New().String()
	}
	for i := range kit.MediaItems {
		kit.MediaItems[i].ID = uuid.New().String()
		kit.MediaItems[i].PressKitID = kit.ID
	}
	for i := range kit.SocialLinks {
		kit.SocialLinks[i].ID = uuid.New().String()
		kit.SocialLinks[i].PressKitID = kit.ID
	}
	for i := range kit.Events {
		kit.Events[i].ID = uuid.New().String()
		kit.Events[i].PressKitID = kit.ID
	}
	for i := range kit.Testimonials {
		kit.Testimonials[i].ID = uuid.New().String()
		kit.Testimonials[i].PressKitID = kit.ID
	}
	for i := range kit.Contacts {
		kit.Contacts[i].ID = uuid.New().String()
		kit.Contacts[i].PressKitID = kit.ID
	}
	if err := r.db.Create(kit).Error; err != nil {
		return fmt.Errorf("failed to create press kit: %w", err)
	}
	return nil
}

// UpdateFields applies a partial update to a press kit. Only the
// columns present in fields are touched; everything else keeps its
// stored value.
func (r *GORMPressKitRepository) UpdateFields(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.PressKit{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update press kit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("press kit with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCascade deletes every child row referencing the press kit,
// then the kit itself, inside a single transaction. If any step fails
// the whole delete rolls back, so no partial state is ever visible.
func (r *GORMPressKitRepository) DeleteCascade(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MediaItem{}, "press_kit_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete media items: %w", err)
		}
		if err := tx.Delete(&models.SocialLink{}, "press_kit_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete social links: %w", err)
		}
		if err := tx.Delete(&models.Event{}, "press_kit_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete events: %w", err)
		}
		if err := tx.Delete(&models.Testimonial{}, "press_kit_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete testimonials: %w", err)
		}
		if err := tx.Delete(&models.Contact{}, "press_kit_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete contacts: %w", err)
		}
		if err := tx.Delete(&models.Analytic{}, "press_kit_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete analytics: %w", err)
		}
		res := tx.Delete(&models.PressKit{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete press kit: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("press kit with ID %s: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// CreateAnalytic appends one analytics row for a public view.
func (r *GORMPressKitRepository) CreateAnalytic(analytic *models.Analytic) error {
	if analytic.ID == "" {
		analytic.ID = uuid.New().String()
	}
	if err := r.db.Create(analytic).Error; err != nil {
		return fmt.Errorf("failed to create analytic: %w", err)
	}
	return nil
}
