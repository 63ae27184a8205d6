package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"teslo/internal/apperrors"
	"teslo/internal/models"
	"teslo/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 10

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	tokenDuration time.Duration
}

// AuthResponse is a user as shown to its owner, plus a fresh token.
type AuthResponse struct {
	ID       string             `json:"id"`
	Email    string             `json:"email"`
	FullName string             `json:"fullName,omitempty"`
	IsActive *bool              `json:"isActive,omitempty"`
	Roles    models.StringArray `json:"roles,omitempty"`
	Token    string             `json:"token"`
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
	}
}

// RegisterUser hashes the password, saves the user and returns it with a token.
func (s *AuthService) RegisterUser(req models.CreateUserRequest) (*AuthResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return nil, s.handleDBErrors(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		IsActive: true,
	}
	user.Normalize()

	if err := s.userRepo.Create(user); err != nil {
		return nil, s.handleDBErrors(err)
	}
	return s.respond(user, true)
}

// LoginUser checks the credentials and returns the user id and email with a token.
func (s *AuthService) LoginUser(req models.LoginUserRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.GetByEmailForLogin(email)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("Credentials are not valid (email)")
		}
		return nil, s.handleDBErrors(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("Credentials are not valid (password)")
	}
	return s.respond(user, false)
}

// CheckAuthStatus re-issues a token for an already authenticated user.
func (s *AuthService) CheckAuthStatus(user *models.User) (*AuthResponse, error) {
	return s.respond(user, true)
}

// GenerateToken signs a token whose only claim besides the times is the user id.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenDuration).Unix(),
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

// ResolvePrincipal turns a bearer token into the active user it was issued to.
func (s *AuthService) ResolvePrincipal(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, &apperrors.Error{Kind: apperrors.KindUnauthorized, Message: "Invalid or expired token", Err: err}
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, apperrors.Unauthorized("Token not valid")
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("Token not valid")
		}
		return nil, s.handleDBErrors(err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("User is inactive, talk with an admin")
	}
	return user, nil
}

func (s *AuthService) respond(user *models.User, full bool) (*AuthResponse, error) {
	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal("Please check server logs", err)
	}
	resp := &AuthResponse{ID: user.ID, Email: user.Email, Token: token}
	if full {
		active := user.IsActive
		resp.FullName = user.FullName
		resp.IsActive = &active
		resp.Roles = user.Roles
	}
	return resp, nil
}

func (s *AuthService) handleDBErrors(err error) error {
	var dupErr *repositories.DuplicateKeyError
	if errors.As(err, &dupErr) {
		return apperrors.DuplicateKey(dupErr.Detail, err)
	}
	zap.L().Error("auth persistence failure", zap.Error(err))
	return apperrors.Internal("Please check server logs", err)
}
