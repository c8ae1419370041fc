package services

import (
	"errors"
	"log"
	"time"

	"afisha/internal/models"
	"afisha/internal/repositories"
)

var (
	ErrEventNotFound = errors.New("Такого события нет")
	ErrAlreadyJoined = errors.New("Вы уже участвуете в этом событии")
	ErrNotJoined     = errors.New("Вы не участвуете в этом событии")
)

type EventService interface {
	// List — актуальные события (start_date >= сейчас), AND-фильтр по тегам.
	List(tags []string, limit, offset int) ([]*models.Event, int, error)
	GetByID(id int64) (*models.Event, error)
	Join(userID int, eventID int64) error
	Leave(userID int, eventID int64) error
	// UpcomingForUser — будущие события пользователя по возрастанию даты.
	// Фильтр по дате считается на момент запроса, старые участия не чистятся.
	UpcomingForUser(userID, limit, offset int) ([]*models.Event, int, error)
	// Participants — все участники события, включая прошедшие события.
	Participants(eventID int64, limit, offset int) ([]*models.User, int, error)
}

type eventService struct {
	events repositories.EventRepository
	parts  repositories.ParticipationRepository
	users  repositories.UserRepository

	now func() time.Time
}

func NewEventService(
	events repositories.EventRepository,
	parts repositories.ParticipationRepository,
	users repositories.UserRepository,
) EventService {
	return &eventService{events: events, parts: parts, users: users, now: time.Now}
}

func (s *eventService) List(tags []string, limit, offset int) ([]*models.Event, int, error) {
	return s.events.ListUpcoming(tags, s.now(), limit, offset)
}

func (s *eventService) GetByID(id int64) (*models.Event, error) {
	e, err := s.events.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	return e, nil
}

func (s *eventService) Join(userID int, eventID int64) error {
	ok, err := s.events.Exists(eventID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEventNotFound
	}

	created, err := s.parts.Create(userID, eventID)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyJoined
	}
	log.Printf("[event][join] user_id=%d event_id=%d", userID, eventID)
	return nil
}

func (s *eventService) Leave(userID int, eventID int64) error {
	ok, err := s.events.Exists(eventID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEventNotFound
	}

	removed, err := s.parts.Delete(userID, eventID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotJoined
	}
	log.Printf("[event][leave] user_id=%d event_id=%d", userID, eventID)
	return nil
}

func (s *eventService) UpcomingForUser(userID, limit, offset int) ([]*models.Event, int, error) {
	events, total, err := s.parts.ListEventsForUser(userID, s.now(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	// участия отдают события без тегов, добираем их
	for i, e := range events {
		full, err := s.events.GetByID(e.ID)
		if err != nil {
			return nil, 0, err
		}
		if full != nil {
			events[i] = full
		}
	}
	return events, total, nil
}

func (s *eventService) Participants(eventID int64, limit, offset int) ([]*models.User, int, error) {
	ids, total, err := s.parts.ListUsersForEvent(eventID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	res := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.GetByID(id)
		if err != nil {
			return nil, 0, err
		}
		if u != nil {
			res = append(res, u)
		}
	}
	return res, total, nil
}
