package services

import (
	"errors"

	"dashfleet/internal/config"
	"dashfleet/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the dashboard operator account configured via
// environment and issues session tokens for it.
type AuthService struct {
	adminEmail   string
	passwordHash string
	jwtUtil      *jwt.JWTUtil
}

func NewAuthService(cfg *config.Config, jwtUtil *jwt.JWTUtil) *AuthService {
	return &AuthService{
		adminEmail:   cfg.AdminEmail,
		passwordHash: cfg.AdminPassword,
		jwtUtil:      jwtUtil,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	if req.Email != s.adminEmail {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	token, err := s.jwtUtil.GenerateToken(req.Email, "admin")
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Email: req.Email,
		Role:  "admin",
		Token: token,
	}, nil
}

// RefreshTokenFromString exchanges a still-valid token for a fresh one.
func (s *AuthService) RefreshTokenFromString(tokenString string) (string, error) {
	claims, err := s.jwtUtil.ValidateToken(tokenString)
	if err != nil {
		return "", errors.New("invalid or expired token")
	}
	return s.jwtUtil.GenerateToken(claims.Email, claims.Role)
}
