// Package auth handles admin sign-in. Credentials live in a relational
// table; the admin gate itself is the user collection's admin flag, so a
// valid password on a non-admin account still rolls the session back.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

// Account is a credential row, provisioned by the seed tool or the external
// signup flow.
type Account struct {
	ID           string    `gorm:"primaryKey;type:char(36)"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:ux_accounts_email"`
	PasswordHash []byte    `gorm:"type:varbinary(60);not null"`
	CreatedAt    time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt    time.Time `gorm:"type:datetime(3);not null"`
}

func (Account) TableName() string { return "auth_users" }

type Service struct {
	db  *gorm.DB
	gw  docstore.Store
	log *slog.Logger
}

func NewService(db *gorm.DB, gw docstore.Store, log *slog.Logger) *Service {
	return &Service{db: db, gw: gw, log: log}
}

// SignIn verifies credentials and the admin flag. The caller creates a
// session only on a nil error; any failure leaves no session behind.
func (s *Service) SignIn(ctx context.Context, email, password string) (Account, error) {
	var acc Account
	err := s.db.WithContext(ctx).First(&acc, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, apperr.UnauthorizedErr("Email or password is incorrect.")
		}
		return Account{}, apperr.Wrap(err)
	}
	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)) != nil {
		return Account{}, apperr.UnauthorizedErr("Email or password is incorrect.")
	}

	admins, err := s.gw.Fetch(ctx, docstore.Query{Collection: "users"}.
		Where("email", email).
		Where("admin", 1))
	if err != nil {
		return Account{}, apperr.Wrap(err)
	}
	if len(admins) == 0 {
		s.log.Warn("non-admin login attempt", "email", email)
		return Account{}, apperr.ForbiddenErr("This account does not have admin access.")
	}
	return acc, nil
}

// CreateAccount provisions a credential row (seed tool).
func (s *Service) CreateAccount(ctx context.Context, email, password string) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}
	acc := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&acc).Error; err != nil {
		return Account{}, err
	}
	return acc, nil
}
