package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"precis/backend/internal/logger"
	"precis/backend/internal/repository"
)

// Admin setting keys
const (
	keyAdminUsername     = "admin.username"
	keyAdminPasswordHash = "admin.password_hash"
	keyAdminJWTSecret    = "admin.jwt_secret"
)

// TokenTTL is how long an admin token stays valid.
const TokenTTL = 24 * time.Hour

// Auth errors
var (
	ErrAdminDisabled   = errors.New("admin API is disabled")
	ErrInvalidPassword = errors.New("invalid username or password")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService guards the model administration endpoints. There is one
// operator account, configured from the environment.
type AuthService interface {
	// Bootstrap stores the operator credentials. An empty password disables
	// the admin API and invalidates issued tokens.
	Bootstrap(ctx context.Context, username, password string) error
	// Login checks the credentials and returns a signed token.
	Login(ctx context.Context, username, password string) (*AuthResponse, error)
	// ValidateToken reports whether token was issued for the current operator.
	ValidateToken(ctx context.Context, token string) (bool, error)
}

type authService struct {
	repo repository.SettingsRepository
	now  func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(repo repository.SettingsRepository) AuthService {
	return &authService{repo: repo, now: time.Now}
}

func (s *authService) Bootstrap(ctx context.Context, username, password string) error {
	if password == "" {
		for _, key := range []string{keyAdminUsername, keyAdminPasswordHash, keyAdminJWTSecret} {
			if err := s.repo.Delete(ctx, key); err != nil {
				return fmt.Errorf("clear %s: %w", key, err)
			}
		}
		logger.Info("admin api disabled", "module", "service", "action", "bootstrap", "resource", "auth", "result", "skipped")
		return nil
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: admin username is required", ErrInvalid)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	values := map[string]string{
		keyAdminUsername:     username,
		keyAdminPasswordHash: string(hash),
	}
	secret, err := s.getString(ctx, keyAdminJWTSecret)
	if err != nil {
		return err
	}
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate jwt secret: %w", err)
		}
		values[keyAdminJWTSecret] = hex.EncodeToString(buf)
	}

	if err := s.repo.SetMany(ctx, values); err != nil {
		return fmt.Errorf("save admin credentials: %w", err)
	}
	logger.Info("admin api enabled", "module", "service", "action", "bootstrap", "resource", "auth", "result", "ok", "username", username)
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	storedUsername, err := s.getString(ctx, keyAdminUsername)
	if err != nil {
		return nil, err
	}
	if storedUsername == "" {
		return nil, ErrAdminDisabled
	}

	storedHash, err := s.getString(ctx, keyAdminPasswordHash)
	if err != nil {
		return nil, err
	}
	nameOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(storedUsername)) == 1
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil || !nameOK {
		return nil, ErrInvalidPassword
	}

	secret, err := s.secret(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   storedUsername,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (bool, error) {
	username, err := s.getString(ctx, keyAdminUsername)
	if err != nil {
		return false, err
	}
	if username == "" {
		return false, ErrAdminDisabled
	}
	secret, err := s.secret(ctx)
	if err != nil {
		return false, ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.Subject != username {
		return false, ErrInvalidToken
	}
	return true, nil
}

func (s *authService) secret(ctx context.Context) ([]byte, error) {
	secretHex, err := s.getString(ctx, keyAdminJWTSecret)
	if err != nil {
		return nil, err
	}
	if secretHex == "" {
		return nil, ErrAdminDisabled
	}
	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, fmt.Errorf("decode jwt secret: %w", err)
	}
	return secret, nil
}

// getString gets a string value from settings.
func (s *authService) getString(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}
