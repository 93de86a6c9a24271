package users

import (
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
)

const Collection = "users"

const (
	FilterAll     = "All"
	FilterAdmins  = "Admins"
	FilterClients = "Clients"

	SortRelevant = "Most Relevant"
	SortNameAZ   = "Name A-Z"
	SortOldest   = "Oldest First"
)

// User mirrors an account created by the external signup flow. Admin and
// EmailVerified carry the display labels the screen renders.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Admin         string `json:"admin"`         // "Yes"/"No"
	EmailVerified string `json:"emailVerified"` // "Verified"/"Not Verified"
	PhotoURL      string `json:"photoURL"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`

	createdAtRaw int64
}

func (u User) RecordID() string { return u.ID }

func (u User) IsAdmin() bool { return u.Admin == "Yes" }

func Decode(d docstore.Document) User {
	admin := "No"
	if d.Flag01("admin") == 1 {
		admin = "Yes"
	}
	verified := "Not Verified"
	if d.Flag01("emailVerified") == 1 {
		verified = "Verified"
	}
	return User{
		ID:            d.ID,
		Name:          d.Str("name", "Unnamed User"),
		Email:         d.Str("email", "N/A"),
		Phone:         d.Str("phone", "-"),
		Admin:         admin,
		EmailVerified: verified,
		PhotoURL:      d.Str("photoURL", ""),
		CreatedAt:     docstore.FormatTime(d.CreatedAt),
		UpdatedAt:     docstore.FormatTime(d.UpdatedAt),
		createdAtRaw:  d.CreatedAt.UnixMilli(),
	}
}

func Projection() liststate.Projection[User] {
	return liststate.Projection[User]{
		SearchText: func(u User) []string {
			return []string{u.Name, u.Email, u.Phone, u.CreatedAt, u.Admin}
		},
		Filters: map[string]func(User) bool{
			FilterAdmins:  func(u User) bool { return u.IsAdmin() },
			FilterClients: func(u User) bool { return !u.IsAdmin() },
		},
		Sorts: map[string]func(a, b User) bool{
			SortNameAZ: func(a, b User) bool { return a.Name < b.Name },
			SortOldest: func(a, b User) bool { return a.createdAtRaw < b.createdAtRaw },
		},
	}
}
