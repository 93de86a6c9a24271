package resetauth

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
)

// DocLinkGenerator issues single-use reset tokens backed by the document
// store, pointing at the admin login page. It stands in for the hosted auth
// provider's generatePasswordResetLink.
type DocLinkGenerator struct {
	GW       docstore.Store
	LoginURL string
}

const tokenCollection = "passwordResets"

func (g *DocLinkGenerator) PasswordResetLink(ctx context.Context, email string) (string, error) {
	token := uuid.NewString()
	if _, err := g.GW.Create(ctx, tokenCollection, docstore.Fields{
		"email": email,
		"token": token,
		"used":  0,
	}); err != nil {
		return "", err
	}
	u, err := url.Parse(g.LoginURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("reset_token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
