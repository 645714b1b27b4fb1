package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"mialtar/internal/models"
	"mialtar/internal/repositories"
	"mialtar/pkg/mailer"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and account recovery.
type AuthService struct {
	userRepo    repositories.UserRepository
	notifier    *Notifier
	resetMailer MailSender // Reset mail is sent inline; its failure must surface
	jwtSecret   []byte
	tokenDurat  time.Duration // Duration for which JWT is valid
	resetTTL    time.Duration // Lifetime of a password reset token
	frontendURL string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, notifier *Notifier, resetMailer MailSender, jwtSecret, frontendURL string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		notifier:    notifier,
		resetMailer: resetMailer,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  2 * time.Hour,
		resetTTL:    time.Hour,
		frontendURL: frontendURL,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them to
// the database. A welcome email is fired off but never fails the registration.
func (s *AuthService) RegisterUser(user *models.User) error {
	// The unique indexes are the source of truth for duplicates; these
	// pre-checks only exist to report which field collided.
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("username '%s': %w", user.Username, ErrUsernameTaken)
	}
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return fmt.Errorf("email '%s': %w", user.Email, ErrEmailTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword) // Store the hashed password
	user.Role = models.RoleUser            // Registration never grants admin

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	subject, html := mailer.WelcomeEmail(user.Username)
	s.notifier.Fire(user.Email, subject, html)
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful. An
// unknown username and a wrong password both come back as ErrInvalidCredentials.
func (s *AuthService) LoginUser(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
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
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// UpdatePassword verifies the caller's current password and replaces it.
func (s *AuthService) UpdatePassword(username, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// RequestPasswordReset stores a single-use reset token on the matched user and
// emails the reset link. Unlike other mail, a delivery failure here is
// returned to the caller: the flow is pointless without the email.
func (s *AuthService) RequestPasswordReset(username, email string) error {
	var user *models.User
	var err error
	if username != "" {
		user, err = s.userRepo.GetByUsername(username)
	} else {
		user, err = s.userRepo.GetByEmail(email)
	}
	if err != nil {
		return err
	}

	if s.resetMailer == nil {
		return ErrMailNotConfigured
	}

	token, err := generateOpaqueToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	user.ResetToken = token
	user.ResetTokenExpiry = time.Now().Add(s.resetTTL).Unix()
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	subject, html := mailer.PasswordResetEmail(user.Username, resetURL)
	if err := s.resetMailer.Send(user.Email, subject, html); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	log.Printf("Password reset email sent to user %s", user.Username)
	return nil
}

// ResetPassword consumes an unexpired reset token, rehashes the new password
// and clears the token fields so the token cannot be reused.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if user.ResetTokenExpiry == 0 || time.Now().Unix() > user.ResetTokenExpiry {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.ResetToken = ""
	user.ResetTokenExpiry = 0

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	log.Printf("Password reset successful for user %s", user.Username)
	return nil
}

// generateOpaqueToken returns n cryptographically random bytes as lowercase hex.
func generateOpaqueToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
