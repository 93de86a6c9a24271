package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionCfg holds configuration for session middleware.
type SessionCfg struct {
	DB         *gorm.DB
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// Session is a database-backed session model. Admin is resolved once at
// sign-in; a demoted account keeps access until its session expires or is
// destroyed.
type Session struct {
	ID         string    `gorm:"primaryKey;type:char(36)"`
	AccountID  string    `gorm:"type:char(36);not null;index:ix_sessions_account_id"`
	Email      string    `gorm:"size:255;not null"`
	Admin      bool      `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"type:datetime(3);not null"`
	CreatedAt  time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt  time.Time `gorm:"type:datetime(3);not null"`
	LastSeenAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Session) TableName() string { return "sessions" }

// User is the signed-in identity handlers read from the context.
type User struct {
	ID    string
	Email string
	Admin bool
}

// SessionMiddleware loads the session named by the cookie and sets the user
// in context. Missing or expired sessions just clear the cookie; gating is
// RequireAdmin's job.
func SessionMiddleware(cfg SessionCfg) gin.HandlerFunc {
	// No AutoMigrate here; the seed tool owns the schema
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		var sess Session
		if err := cfg.DB.Where("id = ? AND expires_at > ?", sessionID, time.Now()).First(&sess).Error; err != nil {
			c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
			c.Next()
			return
		}

		c.Set("session", &sess)
		c.Set("user", User{ID: sess.AccountID, Email: sess.Email, Admin: sess.Admin})

		cfg.DB.Model(&Session{}).Where("id = ?", sess.ID).
			Update("last_seen_at", time.Now())

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (User, bool) {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(User); ok {
			return u, true
		}
	}
	return User{}, false
}

// CreateSession creates a new session row and sets its cookie.
func CreateSession(c *gin.Context, cfg SessionCfg, accountID, email string, admin bool) (*Session, error) {
	now := time.Now()
	sess := Session{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Email:      email,
		Admin:      admin,
		ExpiresAt:  now.Add(cfg.TTL),
		CreatedAt:  now,
		UpdatedAt:  now,
		LastSeenAt: now,
	}
	if err := cfg.DB.Create(&sess).Error; err != nil {
		return nil, err
	}
	c.SetCookie(cfg.CookieName, sess.ID, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
	return &sess, nil
}

// DestroySession removes the current session row and clears the cookie.
func DestroySession(c *gin.Context, cfg SessionCfg) {
	if v, ok := c.Get("session"); ok {
		if sess, ok := v.(*Session); ok {
			cfg.DB.Delete(&Session{}, "id = ?", sess.ID)
		}
	}
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}
