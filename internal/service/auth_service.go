package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/ejurnal-backend/internal/config"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT standard claims with the caller's identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID int        `json:"id"`
	Role   model.Role `json:"role"`
	Name   string     `json:"nama"`
}

// Identity returns the authenticated caller carried by the token.
func (c *Claims) Identity() model.Identity {
	return model.Identity{SubjectID: c.UserID, Role: c.Role, DisplayName: c.Name}
}

// TokenRevoker records logged-out tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService verifies credentials and issues and validates JWTs.
type AuthService struct {
	cfg       *config.Config
	staffRepo repository.StaffRepository
	adminRepo repository.AdminRepository
	revoker   TokenRevoker
	now       func() time.Time
}

// NewAuthService creates a new AuthService. revoker may be nil, in which case
// logout is accepted but tokens stay valid until they expire.
func NewAuthService(cfg *config.Config, staffRepo repository.StaffRepository, adminRepo repository.AdminRepository, revoker TokenRevoker) *AuthService {
	return &AuthService{
		cfg:       cfg,
		staffRepo: staffRepo,
		adminRepo: adminRepo,
		revoker:   revoker,
		now:       time.Now,
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// LoginStaff authenticates a teacher or principal by NIP.
func (s *AuthService) LoginStaff(ctx context.Context, nip, password string) (*model.StaffLoginResponse, error) {
	nip = strings.TrimSpace(nip)
	if nip == "" || password == "" {
		return nil, fmt.Errorf("login staff: nip and password are required: %w", ErrInvalidInput)
	}

	staff, err := s.staffRepo.GetByNIP(ctx, nip)
	if err != nil {
		return nil, fromRepo("login staff", err)
	}
	if err := s.CheckPassword(staff.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.GenerateToken(model.Identity{SubjectID: staff.ID, Role: staff.Role, DisplayName: staff.FullName})
	if err != nil {
		return nil, err
	}

	return &model.StaffLoginResponse{
		Token: token,
		User:  model.StaffProfile{ID: staff.ID, NIP: staff.NIP, Name: staff.FullName, Role: staff.Role},
	}, nil
}

// LoginAdmin authenticates an administrator by username.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (*model.AdminLoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("login admin: username and password are required: %w", ErrInvalidInput)
	}

	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fromRepo("login admin", err)
	}
	if err := s.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.GenerateToken(model.Identity{SubjectID: admin.ID, Role: model.RoleAdmin, DisplayName: admin.FullName})
	if err != nil {
		return nil, err
	}

	return &model.AdminLoginResponse{
		Token: token,
		User:  model.AdminProfile{ID: admin.ID, Username: admin.Username, Name: admin.FullName, Role: model.RoleAdmin},
	}, nil
}

// GenerateToken signs an HS256 JWT for identity with the configured expiry.
func (s *AuthService) GenerateToken(identity model.Identity) (string, error) {
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(identity.SubjectID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: identity.SubjectID,
		Role:   identity.Role,
		Name:   identity.DisplayName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Authenticate validates the token and rejects logged-out tokens.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
		}
	}
	return claims, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if s.revoker == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now()))
}
