package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"afisha/internal/config"
	"afisha/internal/models"
	"afisha/internal/repositories"
	"afisha/internal/utils"
)

var (
	ErrTooManySends    = errors.New("превышено количество попыток")
	ErrResendCooldown  = errors.New("код можно запросить через минуту")
	ErrNoActiveCode    = errors.New("время кода истекло")
	ErrTooManyAttempts = errors.New("количество попыток ввода превышено, запросите код еще раз")
	ErrCodeMismatch    = errors.New("код введен неверно")
	ErrSMSTransport    = errors.New("невозможно отправить смс, попробуйте позже")
)

// SMSSender — внешний SMS-транспорт. Таймаут — забота транспорта.
type SMSSender interface {
	Send(phone, message string) error
}

// SMSAuthService — выдача и проверка одноразовых кодов.
type SMSAuthService struct {
	Repo   repositories.SMSCodeRepository
	Users  repositories.UserRepository
	Client SMSSender
	Cfg    config.SMSAuthConfig

	now func() time.Time
}

func NewSMSAuthService(
	repo repositories.SMSCodeRepository,
	users repositories.UserRepository,
	client SMSSender,
	cfg config.SMSAuthConfig,
) *SMSAuthService {
	return &SMSAuthService{
		Repo:   repo,
		Users:  users,
		Client: client,
		Cfg:    cfg,
		now:    time.Now,
	}
}

func (s *SMSAuthService) codeTTL() time.Duration {
	return time.Duration(s.Cfg.CodeTTLMinutes) * time.Minute
}

func (s *SMSAuthService) sendWindow() time.Duration {
	return time.Duration(s.Cfg.SendWindowMinutes) * time.Minute
}

// generateCode — код фиксированной ширины. В debug-режиме код постоянный,
// чтобы верификацию можно было пройти без реальной отправки.
func (s *SMSAuthService) generateCode() (string, error) {
	n := s.Cfg.CodeLength
	if s.Cfg.Debug {
		return strings.Repeat("1", n), nil
	}
	low := int64(1)
	for i := 1; i < n; i++ {
		low *= 10
	}
	v, err := rand.Int(rand.Reader, big.NewInt(9*low))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", low+v.Int64()), nil
}

// SendCode — выдача нового кода с учётом лимитов.
func (s *SMSAuthService) SendCode(phone string) error {
	now := s.now()

	// общий лимит отправок за окно
	cnt, err := s.Repo.CountSince(phone, now.Add(-s.sendWindow()))
	if err != nil {
		return err
	}
	if cnt >= s.Cfg.SendLimit {
		return ErrTooManySends
	}

	// кулдаун: действующий код ещё жив
	active, err := s.Repo.GetActive(phone, now.Add(-s.codeTTL()))
	if err != nil {
		return err
	}
	if active != nil {
		return ErrResendCooldown
	}

	// гасим старые коды — верифицируемым должен быть ровно один
	if err := s.Repo.MarkAllUsed(phone); err != nil {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	rec := &models.SMSCode{
		Phone:  phone,
		Code:   code,
		SentAt: now,
	}
	if err := s.Repo.Create(rec); err != nil {
		return err
	}

	user, err := s.Users.GetOrCreateByPhone(phone)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" {
		// пароль-заглушка: вход возможен только через код из смс
		secret, err := utils.NewSecretPassword(20)
		if err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("bcrypt generate: %w", err)
		}
		if err := s.Users.UpdatePassword(user.ID, string(hash)); err != nil {
			return err
		}
	}

	// ошибка транспорта не откатывает созданные записи: код истечёт сам
	if err := s.Client.Send(phone, fmt.Sprintf("Код для авторизации: %s", code)); err != nil {
		log.Printf("[sms][send] transport failed: phone=%s err=%v", phone, err)
		return fmt.Errorf("%w: %v", ErrSMSTransport, err)
	}

	log.Printf("[sms][send] ok: phone=%s", phone)
	return nil
}

// VerifyCode — проверка кода. Попытка фиксируется в БД до сравнения,
// чтобы сбой посреди проверки не подарил бесплатную попытку.
func (s *SMSAuthService) VerifyCode(phone, submitted string) (*models.User, error) {
	now := s.now()

	rec, err := s.Repo.GetActive(phone, now.Add(-s.codeTTL()))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoActiveCode
	}
	if rec.Attempts >= s.Cfg.MaxAttempts {
		return nil, ErrTooManyAttempts
	}

	if _, err := s.Repo.IncrementAttempts(rec.ID); err != nil {
		return nil, err
	}
	if rec.Code != submitted {
		return nil, ErrCodeMismatch
	}

	if err := s.Repo.MarkUsed(rec.ID); err != nil {
		return nil, err
	}

	user, err := s.Users.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// код без пользователя появиться не должен: send-sms создаёт его
		return nil, fmt.Errorf("verify code: user for phone %s not found", phone)
	}

	log.Printf("[sms][verify] ok: phone=%s user_id=%d", phone, user.ID)
	return user, nil
}
