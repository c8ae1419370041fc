package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"afisha/internal/models"
)

type SMSCodeRepository interface {
	Create(code *models.SMSCode) error
	// GetActive — последний неиспользованный код номера, отправленный не раньше since.
	GetActive(phone string, since time.Time) (*models.SMSCode, error)
	CountSince(phone string, since time.Time) (int, error)
	MarkAllUsed(phone string) error
	IncrementAttempts(id int64) (int, error)
	MarkUsed(id int64) error
}

type smsCodeRepository struct {
	DB *sql.DB
}

func NewSMSCodeRepository(db *sql.DB) SMSCodeRepository {
	return &smsCodeRepository{DB: db}
}

func (r *smsCodeRepository) Create(code *models.SMSCode) error {
	const q = `
		INSERT INTO sms_codes (phone, code, attempts, sent_at, used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := r.DB.QueryRow(q,
		code.Phone, code.Code, code.Attempts, code.SentAt, code.Used,
	).Scan(&code.ID); err != nil {
		return fmt.Errorf("sms_code create: %w", err)
	}
	return nil
}

func (r *smsCodeRepository) GetActive(phone string, since time.Time) (*models.SMSCode, error) {
	const q = `
		SELECT id, phone, code, attempts, sent_at, used
		FROM sms_codes
		WHERE phone = $1 AND used = FALSE AND sent_at >= $2
		ORDER BY sent_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, phone, since)

	var c models.SMSCode
	if err := row.Scan(&c.ID, &c.Phone, &c.Code, &c.Attempts, &c.SentAt, &c.Used); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sms_code get active: %w", err)
	}
	return &c, nil
}

func (r *smsCodeRepository) CountSince(phone string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM sms_codes
		WHERE phone = $1 AND sent_at >= $2
	`
	var c int
	if err := r.DB.QueryRow(q, phone, since).Scan(&c); err != nil {
		return 0, fmt.Errorf("sms_code count since: %w", err)
	}
	return c, nil
}

// MarkAllUsed — гасим все прежние коды номера: верифицируемым должен
// оставаться только один, самый свежий.
func (r *smsCodeRepository) MarkAllUsed(phone string) error {
	if _, err := r.DB.Exec(`UPDATE sms_codes SET used = TRUE WHERE phone = $1`, phone); err != nil {
		return fmt.Errorf("sms_code mark all used: %w", err)
	}
	return nil
}

// IncrementAttempts — +1 попытка, возвращает новое значение attempts.
func (r *smsCodeRepository) IncrementAttempts(id int64) (int, error) {
	const q = `
		UPDATE sms_codes
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("sms_code increment attempts: %w", err)
	}
	return attempts, nil
}

func (r *smsCodeRepository) MarkUsed(id int64) error {
	if _, err := r.DB.Exec(`UPDATE sms_codes SET used = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("sms_code mark used: %w", err)
	}
	return nil
}
