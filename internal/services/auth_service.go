package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"presskit/internal/models"
	"presskit/internal/repositories"
	"presskit/pkg/rabbitmq"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and password resets. Tokens
// carry the user ID and the musician ID so downstream handlers can run
// ownership checks without a user lookup.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	tokenDuration time.Duration // Session token lifetime
	resetDuration time.Duration // Password reset token lifetime
	mqClient      *rabbitmq.Client
}

// NewAuthService creates a new AuthService. mqClient may be nil; event
// publishing is best-effort.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, mqClient *rabbitmq.Client) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 7 * 24 * time.Hour,
		resetDuration: time.Hour,
		mqClient:      mqClient,
	}
}

// Register creates a user together with its musician profile (stage
// name defaults to the user's name) and returns the user and a session
// token. A duplicate email yields ErrUserExists.
func (s *AuthService) Register(email, password, name string) (*models.User, string, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", ErrUserExists
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     name,
		Musician: &models.Musician{
			StageName: name,
		},
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.generateToken(user.ID, user.Musician.ID, s.tokenDuration)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates a user by email and password and returns the
// user and a session token. Unknown email and wrong password both
// yield ErrInvalidCredentials so neither case leaks account existence.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	var musicianID string
	if user.Musician != nil {
		musicianID = user.Musician.ID
	}
	token, err := s.generateToken(user.ID, musicianID, s.tokenDuration)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser loads the authenticated user's account with the musician
// profile embedded.
func (s *AuthService) CurrentUser(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ForgotPassword issues a short-lived reset token for the account
// behind email. An unknown email returns an empty token and no error
// so the endpoint never reveals whether an address is registered.
func (s *AuthService) ForgotPassword(email string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.resetDuration).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	if s.mqClient != nil {
		payload := map[string]interface{}{
			"userID": user.ID,
			"email":  user.Email,
		}
		if err := s.mqClient.PublishEvent("user.reset_requested", payload); err != nil {
			log.Printf("Warning: Failed to publish reset requested event for user %s: %v", user.ID, err)
		}
	}

	return tokenString, nil
}

// ResetPassword verifies a reset token and replaces the user's
// password with a fresh hash of newPassword.
func (s *AuthService) ResetPassword(tokenString, newPassword string) error {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return ErrInvalidResetToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(userID, string(hashedPassword)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) generateToken(userID, musicianID string, lifetime time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     userID,
		"musician_id": musicianID,
		"exp":         time.Now().Add(lifetime).Unix(),
		"iat":         time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}
