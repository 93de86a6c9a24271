// Package mailer sends transactional mail through an SMTP relay. The only
// producer today is the password-reset flow, so the message shape is a plain
// from/to/subject envelope with text and HTML alternatives.
package mailer

import "context"

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string // display name, e.g. "Ujaas Aroma Admin Portal"
	From     string // envelope sender, e.g. "no-reply@ujaasaroma.com"

	To []string

	Subject string

	TextBody string
	HTMLBody string
}
