package models

import "time"

type User struct {
	ID         int    `json:"id"`
	Phone      string `json:"phone"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Profession string `json:"profession"`
	About      string `json:"about"`
	Website    string `json:"website"`
	Telegram   string `json:"telegram"`
	Instagram  string `json:"instagram"`

	PasswordHash string `json:"-"` // не отдаём наружу
	IsActive     bool   `json:"is_active"`

	DateOfRegistration     time.Time  `json:"date_of_registration"`
	SubscriptionExpiration *time.Time `json:"subscription_expiration_date"`

	Cities      []City       `json:"city"`
	Competences []Competence `json:"competences"`

	// refresh-хранение в БД
	RefreshToken     *string    `json:"-"` // храним opaque строку
	RefreshExpiresAt *time.Time `json:"-"` // срок действия
	RefreshRevoked   bool       `json:"-"` // если понадобится отозвать
}
