package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"afisha/internal/config"
)

const testPhone = "+71111111111"

func testSMSAuthConfig() config.SMSAuthConfig {
	return config.SMSAuthConfig{
		CodeLength:        4,
		CodeTTLMinutes:    1,
		SendWindowMinutes: 60,
		SendLimit:         3,
		MaxAttempts:       3,
		Debug:             true,
	}
}

func newTestSMSAuthService(cfg config.SMSAuthConfig) (*SMSAuthService, *fakeSMSCodeRepo, *fakeUserRepo, *fakeSender, *time.Time) {
	codes := &fakeSMSCodeRepo{}
	users := newFakeUserRepo()
	sender := &fakeSender{}
	svc := NewSMSAuthService(codes, users, sender, cfg)

	now := time.Date(2021, 3, 11, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, codes, users, sender, &now
}

func TestSendCode_DebugCodeAndUserCreation(t *testing.T) {
	svc, codes, users, sender, _ := newTestSMSAuthService(testSMSAuthConfig())

	require.NoError(t, svc.SendCode(testPhone))

	require.Len(t, codes.codes, 1)
	assert.Equal(t, "1111", codes.codes[0].Code)
	assert.Equal(t, 0, codes.codes[0].Attempts)
	assert.False(t, codes.codes[0].Used)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "1111")

	// пользователь создан лениво, с паролем-заглушкой
	u, err := users.GetByPhone(testPhone)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEmpty(t, u.PasswordHash)
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("1111")))
}

func TestSendCode_CooldownWithinWindow(t *testing.T) {
	svc, _, _, _, now := newTestSMSAuthService(testSMSAuthConfig())

	require.NoError(t, svc.SendCode(testPhone))

	err := svc.SendCode(testPhone)
	assert.ErrorIs(t, err, ErrResendCooldown)

	// после окна действия кода отправка снова доступна
	*now = now.Add(61 * time.Second)
	assert.NoError(t, svc.SendCode(testPhone))
}

func TestSendCode_TotalCeiling(t *testing.T) {
	cfg := testSMSAuthConfig()
	svc, _, _, _, now := newTestSMSAuthService(cfg)

	for i := 0; i < cfg.SendLimit; i++ {
		require.NoError(t, svc.SendCode(testPhone))
		*now = now.Add(2 * time.Minute) // выходим из кулдауна, остаёмся в окне лимита
	}

	// лимит исчерпан: кулдаун уже не при чём
	err := svc.SendCode(testPhone)
	assert.ErrorIs(t, err, ErrTooManySends)
}

func TestSendCode_InvalidatesPreviousCodes(t *testing.T) {
	svc, codes, _, _, now := newTestSMSAuthService(testSMSAuthConfig())

	require.NoError(t, svc.SendCode(testPhone))
	*now = now.Add(2 * time.Minute)
	require.NoError(t, svc.SendCode(testPhone))

	require.Len(t, codes.codes, 2)
	assert.True(t, codes.codes[0].Used)
	assert.False(t, codes.codes[1].Used)
}

func TestSendCode_TransportErrorKeepsRecords(t *testing.T) {
	svc, codes, users, sender, _ := newTestSMSAuthService(testSMSAuthConfig())
	sender.fail = true

	err := svc.SendCode(testPhone)
	assert.ErrorIs(t, err, ErrSMSTransport)

	// записи не откатываются — код просто истечёт неиспользованным
	assert.Len(t, codes.codes, 1)
	u, _ := users.GetByPhone(testPhone)
	assert.NotNil(t, u)
}

func TestVerifyCode_SucceedsExactlyOnce(t *testing.T) {
	svc, _, _, _, _ := newTestSMSAuthService(testSMSAuthConfig())

	require.NoError(t, svc.SendCode(testPhone))

	user, err := svc.VerifyCode(testPhone, "1111")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, testPhone, user.Phone)

	// код погашен, повторная проверка того же значения невозможна
	_, err = svc.VerifyCode(testPhone, "1111")
	assert.ErrorIs(t, err, ErrNoActiveCode)
}

func TestVerifyCode_NoActiveCode(t *testing.T) {
	svc, _, _, _, _ := newTestSMSAuthService(testSMSAuthConfig())

	_, err := svc.VerifyCode(testPhone, "1111")
	assert.ErrorIs(t, err, ErrNoActiveCode)
}

func TestVerifyCode_ExpiredCode(t *testing.T) {
	svc, _, _, _, now := newTestSMSAuthService(testSMSAuthConfig())

	require.NoError(t, svc.SendCode(testPhone))
	*now = now.Add(2 * time.Minute)

	_, err := svc.VerifyCode(testPhone, "1111")
	assert.ErrorIs(t, err, ErrNoActiveCode)
}

func TestVerifyCode_MismatchCountsAttempt(t *testing.T) {
	svc, codes, _, _, _ := newTestSMSAuthService(testSMSAuthConfig())

	require.NoError(t, svc.SendCode(testPhone))

	_, err := svc.VerifyCode(testPhone, "9999")
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.Equal(t, 1, codes.codes[0].Attempts)

	// правильный код после одной неудачи всё ещё проходит
	user, err := svc.VerifyCode(testPhone, "1111")
	require.NoError(t, err)
	assert.Equal(t, testPhone, user.Phone)
}

func TestVerifyCode_AttemptsCeilingIsFatal(t *testing.T) {
	cfg := testSMSAuthConfig()
	svc, _, _, _, _ := newTestSMSAuthService(cfg)

	require.NoError(t, svc.SendCode(testPhone))

	for i := 0; i < cfg.MaxAttempts; i++ {
		_, err := svc.VerifyCode(testPhone, "9999")
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}

	// потолок достигнут: даже правильный код отклоняется
	_, err := svc.VerifyCode(testPhone, "1111")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestGenerateCode_RandomModeWidth(t *testing.T) {
	cfg := testSMSAuthConfig()
	cfg.Debug = false
	svc, _, _, _, _ := newTestSMSAuthService(cfg)

	for i := 0; i < 50; i++ {
		code, err := svc.generateCode()
		require.NoError(t, err)
		assert.Len(t, code, 4)
		assert.GreaterOrEqual(t, code, "1000")
	}
}
