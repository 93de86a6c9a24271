// Package resetauth implements the admin password-reset call: verify an
// admin record exists for the email, generate a reset link, send it through
// the SMTP relay, and append one audit entry to the reset log. Error
// categories on the wire are invalid-argument, permission-denied and
// internal.
package resetauth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mailer"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

// LinkGenerator is the seam to the auth provider's reset-link facility.
type LinkGenerator interface {
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

type Service struct {
	gw    docstore.Store
	mail  mailer.Service
	links LinkGenerator
	log   *slog.Logger

	fromName string
	fromAddr string

	State *liststate.Store[LogEntry]
}

func NewService(gw docstore.Store, mail mailer.Service, links LinkGenerator, fromName, fromAddr string, log *slog.Logger) *Service {
	return &Service{
		gw:       gw,
		mail:     mail,
		links:    links,
		log:      log,
		fromName: fromName,
		fromAddr: fromAddr,
		State:    liststate.New[LogEntry]("", ""),
	}
}

// Start feeds the reset-logs screen, newest attempts first.
func (s *Service) Start(ctx context.Context) (func(), error) {
	q := docstore.Query{Collection: LogCollection, OrderBy: "createdAt", Desc: true}
	return s.gw.Subscribe(ctx, q, func(snap docstore.Snapshot) {
		list := make([]LogEntry, 0, len(snap))
		for _, d := range snap {
			list = append(list, DecodeLog(d))
		}
		s.State.ReplaceAll(list)
	})
}

// SendReset runs the whole call. Exactly one audit entry is appended for
// every attempt that passes argument validation.
func (s *Service) SendReset(ctx context.Context, email, ip string) error {
	if email == "" {
		return apperr.InvalidErr("Email is required.", map[string]string{"email": "This field is required."})
	}
	if ip == "" {
		ip = "unknown"
	}

	admins, err := s.gw.Fetch(ctx, docstore.Query{Collection: "users"}.
		Where("email", email).
		Where("admin", 1))
	if err != nil {
		s.appendLog(ctx, email, ip, StatusError, err.Error())
		return apperr.InternalErr("Failed to verify admin account.", err)
	}
	if len(admins) == 0 {
		s.appendLog(ctx, email, ip, StatusFailed, "No admin found with this email")
		return apperr.ForbiddenErr("No admin account found with this email.")
	}

	link, err := s.links.PasswordResetLink(ctx, email)
	if err != nil {
		s.appendLog(ctx, email, ip, StatusError, err.Error())
		return apperr.InternalErr("Failed to generate reset link.", err)
	}

	if err := s.mail.Send(ctx, resetEmail(s.fromName, s.fromAddr, email, link)); err != nil {
		s.appendLog(ctx, email, ip, StatusError, err.Error())
		return apperr.InternalErr("Failed to send email.", err)
	}

	s.appendLog(ctx, email, ip, StatusSuccess, "")
	s.log.Info("password reset email sent", "email", email)
	return nil
}

func (s *Service) appendLog(ctx context.Context, email, ip, status, errMsg string) {
	fields := docstore.Fields{
		"email":  email,
		"ip":     ip,
		"status": status,
	}
	if errMsg != "" {
		fields["error"] = errMsg
	}
	if _, err := s.gw.Create(ctx, LogCollection, fields); err != nil {
		// the audit write must never mask the caller's outcome
		s.log.Error("resetauth: audit log append failed", "email", email, "err", err)
	}
}

func resetEmail(fromName, fromAddr, to, link string) mailer.Email {
	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; padding: 20px; border-radius: 8px; border: 1px solid #eee; max-width: 600px; margin: auto;">
  <h2>Password Reset Request</h2>
  <p>Hello Admin,</p>
  <p>Click below to reset your password:</p>
  <a href="%s" style="background-color:#4CAF50;color:#fff;padding:10px 20px;text-decoration:none;border-radius:5px;">Reset Password</a>
  <p>If you didn't request this, ignore this email.</p>
</div>
`, link)
	return mailer.Email{
		FromName: fromName,
		From:     fromAddr,
		To:       []string{to},
		Subject:  "Reset Your Ujaas Aroma Admin Password",
		TextBody: "Reset your password: " + link,
		HTMLBody: html,
	}
}
