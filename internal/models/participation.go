package models

import "time"

// Participation — участие пользователя в событии. Пара (user, event) уникальна,
// выход из события удаляет строку.
type Participation struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user"`
	EventID   int64     `json:"event"`
	CreatedAt time.Time `json:"created_at"`
}

type Favorite struct {
	ID      int64 `json:"id"`
	UserID  int   `json:"user"`
	EventID int64 `json:"event"`
}
