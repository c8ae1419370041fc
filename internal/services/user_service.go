package services

import (
	"errors"

	"afisha/internal/models"
	"afisha/internal/repositories"
)

var ErrUserNotFound = errors.New("Такого пользователя нет")

// ProfileUpdate — изменяемые поля профиля. Телефон и пароль этим путём
// не меняются.
type ProfileUpdate struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Profession  string  `json:"profession"`
	About       string  `json:"about"`
	Website     string  `json:"website"`
	Telegram    string  `json:"telegram"`
	Instagram   string  `json:"instagram"`
	Cities      []int64 `json:"city"`
	Competences []int64 `json:"competences"`
}

type UserService interface {
	GetByID(id int) (*models.User, error)
	UpdateProfile(userID int, upd *ProfileUpdate) (*models.User, error)
	List(competences []string, limit, offset int) ([]*models.User, int, error)
}

type userService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetByID(id int) (*models.User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) UpdateProfile(userID int, upd *ProfileUpdate) (*models.User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	u.FirstName = upd.FirstName
	u.LastName = upd.LastName
	u.Profession = upd.Profession
	u.About = upd.About
	u.Website = upd.Website
	u.Telegram = upd.Telegram
	u.Instagram = upd.Instagram

	if err := s.repo.UpdateProfile(u); err != nil {
		return nil, err
	}
	if err := s.repo.SetCities(userID, upd.Cities); err != nil {
		return nil, err
	}
	if err := s.repo.SetCompetences(userID, upd.Competences); err != nil {
		return nil, err
	}
	return s.repo.GetByID(userID)
}

func (s *userService) List(competences []string, limit, offset int) ([]*models.User, int, error) {
	return s.repo.ListActive(competences, limit, offset)
}
