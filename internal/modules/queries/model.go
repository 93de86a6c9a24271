package queries

import (
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
)

// Collection receives the mobile app's contact form submissions.
const Collection = "mobileAppContactFormQueries"

const (
	SortMostRecent = "Most Recent"
	SortOldest     = "Oldest First"
)

type Query struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	Deleted   int    `json:"deleted"`
	CreatedAt string `json:"createdAt"`

	createdAtRaw int64
}

func (q Query) RecordID() string { return q.ID }

func Decode(d docstore.Document) Query {
	return Query{
		ID:           d.ID,
		Name:         d.Str("name", "-"),
		Email:        d.Str("email", "N/A"),
		Phone:        d.Str("phone", "-"),
		Message:      d.Str("message", ""),
		UserID:       d.Str("userId", ""),
		Deleted:      d.Flag01("deleted"),
		CreatedAt:    docstore.FormatTime(d.CreatedAt),
		createdAtRaw: d.CreatedAt.UnixMilli(),
	}
}

func Projection() liststate.Projection[Query] {
	return liststate.Projection[Query]{
		SearchText: func(q Query) []string {
			return []string{q.Name, q.Email, q.Phone}
		},
		Filters: map[string]func(Query) bool{},
		Sorts: map[string]func(a, b Query) bool{
			SortMostRecent: func(a, b Query) bool { return a.createdAtRaw > b.createdAtRaw },
			SortOldest:     func(a, b Query) bool { return a.createdAtRaw < b.createdAtRaw },
		},
	}
}
