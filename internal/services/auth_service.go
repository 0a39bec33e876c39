package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/config"
	"github.com/jobboardhq/jobboard-backend/internal/dto"
	"github.com/jobboardhq/jobboard-backend/internal/models"
)

var (
	ErrEmailTaken         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

type AuthService struct {
	db    *gorm.DB
	cfg   *config.Config
	audit *AuditService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, audit *AuditService) *AuthService {
	return &AuthService{db: db, cfg: cfg, audit: audit}
}

func (s *AuthService) Register(req *dto.RegisterRequest, ip string) (*dto.AuthResponse, error) {
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	// Password is stored as plain text. Explicit product decision inherited
	// from the system this replaces; see DESIGN.md before changing.
	user := models.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.NormalizeRole(req.Role),
	}

	if err := s.db.Create(&user).Error; err != nil {
		// Losing the check-then-insert race trips the unique email index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Record(&user.ID, "User Registered", "User", &user.ID, "Role: "+user.Role, ip)

	return s.authResponse(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest, ip string) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	// Plain text comparison, matching storage.
	if user.Password != req.Password {
		s.audit.Record(&user.ID, "Login Failed", "User", &user.ID, "Failed attempt for email: "+req.Email, ip)
		return nil, ErrInvalidCredentials
	}

	s.audit.Record(&user.ID, "User Login", "User", &user.ID, "Login successful", ip)

	return s.authResponse(&user)
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := signToken(s.cfg.JWTSecret, s.cfg.JWTExpiry, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Role:              user.Role,
		IsProfileComplete: user.IsProfileComplete,
		Token:             token,
	}, nil
}

// signToken issues a stateless HS256 token carrying the user id and role.
// There is no refresh flow; expiry defaults to 30 days.
func signToken(secret string, expiry time.Duration, userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
