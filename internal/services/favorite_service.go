package services

import (
	"errors"

	"afisha/internal/models"
	"afisha/internal/repositories"
)

var (
	ErrAlreadyFavorite  = errors.New("Уже добавлено в избранное")
	ErrFavoriteNotFound = errors.New("Такого избранного нет")
)

type FavoriteService interface {
	List(userID int) ([]*models.Favorite, error)
	Add(userID int, eventID int64) (*models.Favorite, error)
	Remove(userID int, eventID int64) error
}

type favoriteService struct {
	repo   repositories.FavoriteRepository
	events repositories.EventRepository
}

func NewFavoriteService(repo repositories.FavoriteRepository, events repositories.EventRepository) FavoriteService {
	return &favoriteService{repo: repo, events: events}
}

func (s *favoriteService) List(userID int) ([]*models.Favorite, error) {
	return s.repo.ListByUser(userID)
}

func (s *favoriteService) Add(userID int, eventID int64) (*models.Favorite, error) {
	ok, err := s.events.Exists(eventID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEventNotFound
	}

	created, err := s.repo.Create(userID, eventID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyFavorite
	}
	return &models.Favorite{UserID: userID, EventID: eventID}, nil
}

func (s *favoriteService) Remove(userID int, eventID int64) error {
	removed, err := s.repo.Delete(userID, eventID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrFavoriteNotFound
	}
	return nil
}
