package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"packaging_cell/internal/models"
	"packaging_cell/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = time.Hour

	// Seeded on first start so a fresh install can sign in and create operators.
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("username and password are required")
)

// AuthService handles operator accounts and bearer tokens.
type AuthService struct {
	authRepo   repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(repo repository.Authorization, signingKey string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{authRepo: repo, signingKey: []byte(signingKey), tokenTTL: tokenTTL}
}

// Register hashes the password and stores a new account.
func (s *AuthService) Register(ctx context.Context, username, password string, isAdmin bool) error {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return ErrInvalidCredentials
	}

	existing, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}
	return s.authRepo.Create(ctx, models.Account{Username: username, PasswordHash: hash, IsAdmin: isAdmin})
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"user"`
	Admin    bool   `json:"admin"`
}

// GenerateToken validates credentials and returns JWT
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	a, err := s.authRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(a.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(a.Username, a.IsAdmin)
}

// ParseToken validates the JWT and returns who it was issued to.
func (s *AuthService) ParseToken(accessToken string) (Identity, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{Username: claims.Username, IsAdmin: claims.Admin}, nil
}

// EnsureAdminSeed creates the default admin account, or promotes an existing
// account of that name that lost its admin flag.
func (s *AuthService) EnsureAdminSeed(ctx context.Context) error {
	a, err := s.authRepo.GetByUsername(ctx, defaultAdminUsername)
	if err != nil {
		return err
	}
	if a == nil {
		return s.Register(ctx, defaultAdminUsername, defaultAdminPassword, true)
	}
	if !a.IsAdmin {
		return s.authRepo.SetAdmin(ctx, a.Username, true)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueToken(username string, isAdmin bool) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
		Admin:    isAdmin,
	})
	return token.SignedString(s.signingKey)
}
