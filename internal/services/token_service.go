package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"afisha/internal/config"
	"afisha/internal/middleware"
	"afisha/internal/models"
	"afisha/internal/repositories"
	"afisha/internal/utils"
)

var (
	ErrRefreshInvalid = errors.New("token invalid")
	ErrRefreshExpired = errors.New("token expired")
)

type TokenPair struct {
	Access           string
	Refresh          string
	RefreshExpiresAt time.Time
}

// TokenService — выпуск access/refresh токенов для уже проверенного
// пользователя. Отдельного входа по паролю нет.
type TokenService struct {
	Users repositories.UserRepository
	Cfg   config.AuthConfig

	now func() time.Time
}

func NewTokenService(users repositories.UserRepository, cfg config.AuthConfig) *TokenService {
	return &TokenService{Users: users, Cfg: cfg, now: time.Now}
}

func (s *TokenService) accessTTL() time.Duration {
	return time.Duration(s.Cfg.AccessTTLMin) * time.Minute
}

func (s *TokenService) refreshTTL() time.Duration {
	return time.Duration(s.Cfg.RefreshTTLHours) * time.Hour
}

func (s *TokenService) signAccess(userID int) (string, error) {
	claims := &middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.accessTTL())),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.Cfg.JWTSecret))
}

// IssueForUser — прямой выпуск пары токенов по пользователю.
// Refresh — opaque строка, хранится в БД с ротацией.
func (s *TokenService) IssueForUser(user *models.User) (*TokenPair, error) {
	access, err := s.signAccess(user.ID)
	if err != nil {
		return nil, err
	}

	refresh, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.refreshTTL())
	if err := s.Users.UpdateRefresh(user.ID, refresh, expiresAt); err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh, RefreshExpiresAt: expiresAt}, nil
}

// Refresh — проверка и ротация refresh токена.
func (s *TokenService) Refresh(oldToken string) (*models.User, *TokenPair, error) {
	user, err := s.Users.GetByRefreshToken(oldToken)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || user.RefreshToken == nil || user.RefreshExpiresAt == nil || user.RefreshRevoked {
		return nil, nil, ErrRefreshInvalid
	}
	if s.now().After(*user.RefreshExpiresAt) {
		return nil, nil, ErrRefreshExpired
	}

	newRefresh, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, nil, err
	}
	newExpiresAt := s.now().Add(s.refreshTTL())
	rotated, err := s.Users.RotateRefresh(oldToken, newRefresh, newExpiresAt)
	if err != nil {
		return nil, nil, err
	}
	if rotated == nil {
		return nil, nil, ErrRefreshInvalid
	}

	access, err := s.signAccess(rotated.ID)
	if err != nil {
		return nil, nil, err
	}
	return rotated, &TokenPair{Access: access, Refresh: newRefresh, RefreshExpiresAt: newExpiresAt}, nil
}
