package repositories

import "presskit/internal/models"

// UserRepository defines the interface for user and musician data access.
type UserRepository interface {
	// Create persists the user together with its attached Musician
	// profile in a single transaction.
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdatePassword(id string, passwordHash string) error
}
