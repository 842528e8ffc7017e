package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"presskit/internal/models"
	"presskit/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB opens a uniquely named in-memory SQLite database so tests
// do not see each other's rows.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Musician{},
		&models.PressKit{},
		&models.MediaItem{},
		&models.SocialLink{},
		&models.Event{},
		&models.Testimonial{},
		&models.Contact{},
		&models.Analytic{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// seedKitWithChildren creates a press kit with one row in every child
// collection plus one analytics row.
func seedKitWithChildren(t *testing.T, db *gorm.DB, repo repositories.PressKitRepository, musicianID string) *models.PressKit {
	t.Helper()
	kit := &models.PressKit{
		Title:      "Tour 2024",
		Theme:      "default",
		MusicianID: musicianID,
	}
	if err := repo.Create(kit); err != nil {
		t.Fatalf("failed to seed press kit: %v", err)
	}
	children := []interface{}{
		&models.MediaItem{ID: uuid.New().String(), PressKitID: kit.ID, Type: "image", Title: "Press photo", Order: 1},
		&models.SocialLink{ID: uuid.New().String(), PressKitID: kit.ID, Platform: "instagram", URL: "https://instagram.com/artist"},
		&models.Event{ID: uuid.New().String(), PressKitID: kit.ID, Name: "Show", Date: time.Now().Add(48 * time.Hour)},
		&models.Testimonial{ID: uuid.New().String(), PressKitID: kit.ID, Quote: "Stunning", Author: "Reviewer"},
		&models.Contact{ID: uuid.New().String(), PressKitID: kit.ID, Name: "Agent", Email: "agent@example.com"},
		&models.Analytic{ID: uuid.New().String(), PressKitID: kit.ID, VisitorIP: "203.0.113.9"},
	}
	for _, child := range children {
		if err := db.Create(child).Error; err != nil {
			t.Fatalf("failed to seed child row: %v", err)
		}
	}
	return kit
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, pressKitID string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where("press_kit_id = ?", pressKitID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

func TestGORMPressKitRepository_DeleteCascade(t *testing.T) {
	db := openTestDB(t, "repo_cascade")
	repo := repositories.NewGORMPressKitRepository(db)

	kit := seedKitWithChildren(t, db, repo, uuid.New().String())

	err := repo.DeleteCascade(kit.ID)
	assert.NoError(t, err)

	_, err = repo.GetByID(kit.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Zero(t, countRows(t, db, &models.MediaItem{}, kit.ID))
	assert.Zero(t, countRows(t, db, &models.SocialLink{}, kit.ID))
	assert.Zero(t, countRows(t, db, &models.Event{}, kit.ID))
	assert.Zero(t, countRows(t, db, &models.Testimonial{}, kit.ID))
	assert.Zero(t, countRows(t, db, &models.Contact{}, kit.ID))
	assert.Zero(t, countRows(t, db, &models.Analytic{}, kit.ID))

	// Deleting a missing kit reports NotFound
	err = repo.DeleteCascade(uuid.New().String())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMPressKitRepository_DeleteCascadeIsAtomic(t *testing.T) {
	db := openTestDB(t, "repo_cascade_atomic")
	repo := repositories.NewGORMPressKitRepository(db)

	kit := seedKitWithChildren(t, db, repo, uuid.New().String())

	// Simulate a storage fault part-way through the cascade: the
	// contacts table vanishes, so its delete step fails after the
	// earlier child deletes already ran inside the transaction.
	if err := db.Migrator().DropTable(&models.Contact{}); err != nil {
		t.Fatalf("failed to drop contacts table: %v", err)
	}

	err := repo.DeleteCascade(kit.ID)
	assert.Error(t, err)

	// Nothing was deleted: the kit and all surviving child tables are intact.
	_, err = repo.GetByID(kit.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, countRows(t, db, &models.MediaItem{}, kit.ID))
	assert.EqualValues(t, 1, countRows(t, db, &models.SocialLink{}, kit.ID))
	assert.EqualValues(t, 1, countRows(t, db, &models.Event{}, kit.ID))
	assert.EqualValues(t, 1, countRows(t, db, &models.Testimonial{}, kit.ID))
	assert.EqualValues(t, 1, countRows(t, db, &models.Analytic{}, kit.ID))
}

func TestGORMPressKitRepository_GetPublicByID(t *testing.T) {
	db := openTestDB(t, "repo_public")
	repo := repositories.NewGORMPressKitRepository(db)

	musician := &models.Musician{
		ID:        uuid.New().String(),
		UserID:    uuid.New().String(),
		StageName: "Test Artist",
		Bio:       "Bio",
		Location:  "Amsterdam",
		Website:   "https://artist.example",
	}
	if err := db.Create(musician).Error; err != nil {
		t.Fatalf("failed to seed musician: %v", err)
	}

	kit := &models.PressKit{Title: "Tour 2024", IsPublic: true, MusicianID: musician.ID}
	if err := repo.Create(kit); err != nil {
		t.Fatalf("failed to seed press kit: %v", err)
	}

	now := time.Now()
	events := []models.Event{
		{ID: uuid.New().String(), PressKitID: kit.ID, Name: "Past show", Date: now.Add(-24 * time.Hour)},
		{ID: uuid.New().String(), PressKitID: kit.ID, Name: "Far show", Date: now.Add(96 * time.Hour)},
		{ID: uuid.New().String(), PressKitID: kit.ID, Name: "Near show", Date: now.Add(24 * time.Hour)},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			t.Fatalf("failed to seed event: %v", err)
		}
	}

	got, err := repo.GetPublicByID(kit.ID, now)
	assert.NoError(t, err)

	// Upcoming events only, soonest first
	assert.Len(t, got.Events, 2)
	assert.Equal(t, "Near show", got.Events[0].Name)
	assert.Equal(t, "Far show", got.Events[1].Name)

	// Musician public profile is embedded
	assert.NotNil(t, got.Musician)
	assert.Equal(t, "Test Artist", got.Musician.StageName)
	assert.Equal(t, "https://artist.example", got.Musician.Website)

	_, err = repo.GetPublicByID(uuid.New().String(), now)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMPressKitRepository_GetAllByMusicianOrdering(t *testing.T) {
	db := openTestDB(t, "repo_list")
	repo := repositories.NewGORMPressKitRepository(db)

	musicianID := uuid.New().String()
	first := &models.PressKit{Title: "First", MusicianID: musicianID}
	second := &models.PressKit{Title: "Second", MusicianID: musicianID}
	assert.NoError(t, repo.Create(first))
	assert.NoError(t, repo.Create(second))

	// Touching the first kit moves it to the front of the list
	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, repo.UpdateFields(first.ID, map[string]interface{}{"description": "touched"}))

	kits, err := repo.GetAllByMusician(musicianID)
	assert.NoError(t, err)
	assert.Len(t, kits, 2)
	assert.Equal(t, "First", kits[0].Title)
	assert.Equal(t, "Second", kits[1].Title)

	// Other musicians' kits are not visible
	kits, err = repo.GetAllByMusician(uuid.New().String())
	assert.NoError(t, err)
	assert.Len(t, kits, 0)
}

func TestGORMPressKitRepository_CreateRebindsChildren(t *testing.T) {
	db := openTestDB(t, "repo_create_children")
	repo := repositories.NewGORMPressKitRepository(db)

	kit := &models.PressKit{
		Title:      "Tour 2024 (Copy)",
		MusicianID: uuid.New().String(),
		MediaItems: []models.MediaItem{
			{Type: "image", Title: "Press photo", Order: 1},
			{Type: "audio", Title: "Single", Order: 2},
		},
		Contacts: []models.Contact{
			{Name: "Agent", Email: "agent@example.com"},
		},
	}
	assert.NoError(t, repo.Create(kit))
	assert.NotEmpty(t, kit.ID)

	got, err := repo.GetByIDWithChildren(kit.ID)
	assert.NoError(t, err)
	assert.Len(t, got.MediaItems, 2)
	assert.Len(t, got.Contacts, 1)
	for _, item := range got.MediaItems {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, kit.ID, item.PressKitID)
	}
	// Media items come back in display order
	assert.Equal(t, 1, got.MediaItems[0].Order)
	assert.Equal(t, 2, got.MediaItems[1].Order)
}
