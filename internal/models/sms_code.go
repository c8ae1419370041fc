package models

import "time"

// SMSCode — одноразовый код авторизации. Отдельная строка на каждую отправку,
// верифицируемой может быть только последняя неиспользованная.
type SMSCode struct {
	ID       int64     `json:"id"`
	Phone    string    `json:"phone"`
	Code     string    `json:"-"`
	Attempts int       `json:"attempts"`
	SentAt   time.Time `json:"sent_at"`
	Used     bool      `json:"used"`
}
