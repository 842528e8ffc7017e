package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"presskit/internal/models"
	"presskit/internal/repositories"
	"presskit/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(id string, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret, nil)

	// Test successful registration
	mockRepo.On("GetByEmail", "test@example.com").
		Return(nil, fmt.Errorf("user with email test@example.com: %w", repositories.ErrNotFound)).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(0).(*models.User)
			user.ID = "user-123"
			user.Musician.ID = "musician-123"
		}).Return(nil).Once()

	user, token, err := authService.Register("test@example.com", "password123", "Test Artist")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotNil(t, user.Musician)
	assert.Equal(t, "Test Artist", user.Musician.StageName, "musician profile takes the user's name as stage name")
	// Password must be stored hashed
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// The session token must carry both IDs
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "musician-123", claims["musician_id"])

	// Test duplicate email
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "user-123"}, nil).Once()
	_, _, err = authService.Register("test@example.com", "password123", "Test Artist")
	assert.ErrorIs(t, err, services.ErrUserExists)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Name:     "Test Artist",
		Musician: &models.Musician{ID: "musician-123", StageName: "Test Artist"},
	}

	// Test successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	loggedIn, token, err := authService.Login("test@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "musician-123", claims["musician_id"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = authService.Login("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found) returns the same error
	mockRepo.On("GetByEmail", "nobody@example.com").
		Return(nil, fmt.Errorf("user with email nobody@example.com: %w", repositories.ErrNotFound)).Once()
	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret, nil)

	// Test valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     "user-123",
		"musician_id": "musician-123",
		"exp":         jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "musician-123", claims["musician_id"])

	// Test garbage token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     "user-123",
		"musician_id": "musician-123",
		"exp":         jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret", nil)

	// Known email yields a usable reset token
	user := &models.User{ID: "user-123", Email: "test@example.com"}
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()

	resetToken, err := authService.ForgotPassword("test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, resetToken)

	claims, err := authService.ValidateToken(resetToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	mockRepo.AssertExpectations(t)

	// Unknown email yields no token and no error (nothing to leak)
	mockRepo.On("GetByEmail", "nobody@example.com").
		Return(nil, fmt.Errorf("user with email nobody@example.com: %w", repositories.ErrNotFound)).Once()
	resetToken, err = authService.ForgotPassword("nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, resetToken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ResetPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret", nil)

	// Valid reset token updates the stored hash
	user := &models.User{ID: "user-123", Email: "test@example.com"}
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	resetToken, err := authService.ForgotPassword("test@example.com")
	assert.NoError(t, err)

	mockRepo.On("UpdatePassword", "user-123", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			hash := args.Get(1).(string)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")))
		}).Return(nil).Once()

	err = authService.ResetPassword(resetToken, "newpassword")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// A token signed with another secret is rejected before any update
	otherService := services.NewAuthService(mockRepo, "another_secret", nil)
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	foreignToken, err := otherService.ForgotPassword("test@example.com")
	assert.NoError(t, err)

	err = authService.ResetPassword(foreignToken, "newpassword")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
	mockRepo.AssertExpectations(t)
}
