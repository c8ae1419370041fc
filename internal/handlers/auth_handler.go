package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"afisha/internal/services"
)

type AuthHandler struct {
	SMS    *services.SMSAuthService
	Tokens *services.TokenService
}

func NewAuthHandler(sms *services.SMSAuthService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{SMS: sms, Tokens: tokens}
}

type sendSMSRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
}

type tokenRequest struct {
	Phone    string `json:"phone" binding:"required,e164"`
	Password string `json:"password" binding:"required"`
}

// setRefreshCookie — refresh живёт только в http-only куке, из JS не читается.
func setRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie("refresh", token, maxAge, "/", "", false, true)
}

func (h *AuthHandler) SendSMS(c *gin.Context) {
	var req sendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.SMS.SendCode(req.Phone); err != nil {
		switch {
		case errors.Is(err, services.ErrTooManySends),
			errors.Is(err, services.ErrResendCooldown):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSMSTransport):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Невозможно отправить смс. Попробуйте позже"})
		default:
			log.Printf("[auth][send-sms] phone=%s err=%v", req.Phone, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send SMS"})
		}
		return
	}

	c.Status(http.StatusOK)
}

// Token — проверка кода из смс и выдача пары токенов.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.SMS.VerifyCode(req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveCode),
			errors.Is(err, services.ErrTooManyAttempts),
			errors.Is(err, services.ErrCodeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[auth][token] phone=%s err=%v", req.Phone, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		}
		return
	}

	pair, err := h.Tokens.IssueForUser(user)
	if err != nil {
		log.Printf("[auth][token] issue failed: user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	setRefreshCookie(c, pair.Refresh, pair.RefreshExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// RefreshToken — refresh берётся строго из куки, телу запроса не доверяем.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	old, err := c.Cookie("refresh")
	if err != nil || old == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token not found"})
		return
	}

	user, pair, err := h.Tokens.Refresh(old)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRefreshInvalid),
			errors.Is(err, services.ErrRefreshExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[auth][refresh] err=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh tokens"})
		}
		return
	}

	log.Printf("[auth][refresh] ok: user_id=%d", user.ID)
	setRefreshCookie(c, pair.Refresh, pair.RefreshExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}
