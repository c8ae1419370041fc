package services

import (
	"errors"
	"sort"
	"time"

	"afisha/internal/models"
)

// In-memory реализации репозиториев для тестов сервисов.

type fakeSMSCodeRepo struct {
	seq   int64
	codes []*models.SMSCode
}

func (r *fakeSMSCodeRepo) Create(c *models.SMSCode) error {
	r.seq++
	c.ID = r.seq
	cp := *c
	r.codes = append(r.codes, &cp)
	return nil
}

func (r *fakeSMSCodeRepo) GetActive(phone string, since time.Time) (*models.SMSCode, error) {
	var found *models.SMSCode
	for _, c := range r.codes {
		if c.Phone != phone || c.Used || c.SentAt.Before(since) {
			continue
		}
		if found == nil || c.SentAt.After(found.SentAt) {
			found = c
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (r *fakeSMSCodeRepo) CountSince(phone string, since time.Time) (int, error) {
	n := 0
	for _, c := range r.codes {
		if c.Phone == phone && !c.SentAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSMSCodeRepo) MarkAllUsed(phone string) error {
	for _, c := range r.codes {
		if c.Phone == phone {
			c.Used = true
		}
	}
	return nil
}

func (r *fakeSMSCodeRepo) IncrementAttempts(id int64) (int, error) {
	for _, c := range r.codes {
		if c.ID == id {
			c.Attempts++
			return c.Attempts, nil
		}
	}
	return 0, errors.New("sms code not found")
}

func (r *fakeSMSCodeRepo) MarkUsed(id int64) error {
	for _, c := range r.codes {
		if c.ID == id {
			c.Used = true
			return nil
		}
	}
	return errors.New("sms code not found")
}

type fakeUserRepo struct {
	seq   int
	users map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*models.User{}}
}

func (r *fakeUserRepo) GetOrCreateByPhone(phone string) (*models.User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	r.seq++
	u := &models.User{
		ID:                 r.seq,
		Phone:              phone,
		IsActive:           true,
		DateOfRegistration: time.Now(),
	}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByPhone(phone string) (*models.User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateProfile(user *models.User) error {
	u, ok := r.users[user.ID]
	if !ok {
		return errors.New("user not found")
	}
	u.FirstName = user.FirstName
	u.LastName = user.LastName
	u.Profession = user.Profession
	u.About = user.About
	u.Website = user.Website
	u.Telegram = user.Telegram
	u.Instagram = user.Instagram
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, hash string) error {
	u, ok := r.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) ListActive(competences []string, limit, offset int) ([]*models.User, int, error) {
	var all []*models.User
	for _, u := range r.users {
		if u.IsActive {
			cp := *u
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.RefreshToken = &token
	u.RefreshExpiresAt = &expiresAt
	u.RefreshRevoked = false
	return nil
}

func (r *fakeUserRepo) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == oldToken && !u.RefreshRevoked {
			u.RefreshToken = &newToken
			u.RefreshExpiresAt = &newExpiresAt
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ClearRefresh(userID int) error {
	u, ok := r.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.RefreshToken = nil
	u.RefreshExpiresAt = nil
	u.RefreshRevoked = true
	return nil
}

func (r *fakeUserRepo) GetByRefreshToken(token string) (*models.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetCities(userID int, cityIDs []int64) error { return nil }

func (r *fakeUserRepo) SetCompetences(userID int, compIDs []int64) error { return nil }

type fakeSender struct {
	sent []string
	fail bool
}

func (s *fakeSender) Send(phone, message string) error {
	if s.fail {
		return errors.New("provider down")
	}
	s.sent = append(s.sent, message)
	return nil
}

type fakeEventRepo struct {
	events map[int64]*models.Event
}

func newFakeEventRepo(events ...*models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: map[int64]*models.Event{}}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) GetByID(id int64) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) Exists(id int64) (bool, error) {
	_, ok := r.events[id]
	return ok, nil
}

func (r *fakeEventRepo) ListUpcoming(tags []string, from time.Time, limit, offset int) ([]*models.Event, int, error) {
	var all []*models.Event
	for _, e := range r.events {
		if e.StartDate.Before(from) {
			continue
		}
		cp := *e
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.Before(all[j].StartDate) })
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type fakePartRepo struct {
	seq    int64
	rows   []*models.Participation
	events *fakeEventRepo
}

func (r *fakePartRepo) Create(userID int, eventID int64) (bool, error) {
	for _, p := range r.rows {
		if p.UserID == userID && p.EventID == eventID {
			return false, nil
		}
	}
	r.seq++
	r.rows = append(r.rows, &models.Participation{ID: r.seq, UserID: userID, EventID: eventID})
	return true, nil
}

func (r *fakePartRepo) Delete(userID int, eventID int64) (bool, error) {
	for i, p := range r.rows {
		if p.UserID == userID && p.EventID == eventID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePartRepo) ListEventsForUser(userID int, from time.Time, limit, offset int) ([]*models.Event, int, error) {
	var all []*models.Event
	for _, p := range r.rows {
		if p.UserID != userID {
			continue
		}
		e, ok := r.events.events[p.EventID]
		if !ok || e.StartDate.Before(from) {
			continue
		}
		cp := *e
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.Before(all[j].StartDate) })
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakePartRepo) ListUsersForEvent(eventID int64, limit, offset int) ([]int, int, error) {
	var ids []int
	for _, p := range r.rows {
		if p.EventID == eventID {
			ids = append(ids, p.UserID)
		}
	}
	total := len(ids)
	if offset > len(ids) {
		offset = len(ids)
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], total, nil
}
