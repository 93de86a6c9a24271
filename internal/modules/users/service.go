package users

import (
	"context"
	"log/slog"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

// Service owns the users screen. Accounts are created by the external signup
// flow; the admin can edit contact fields and delete an account.
type Service struct {
	gw   docstore.Store
	orch *mutate.Orchestrator
	log  *slog.Logger

	State *liststate.Store[User]
}

func NewService(gw docstore.Store, orch *mutate.Orchestrator, log *slog.Logger) *Service {
	return &Service{
		gw:    gw,
		orch:  orch,
		log:   log,
		State: liststate.New[User](FilterAll, SortRelevant),
	}
}

func (s *Service) Start(ctx context.Context) (func(), error) {
	q := docstore.Query{Collection: Collection, OrderBy: "name"}
	return s.gw.Subscribe(ctx, q, func(snap docstore.Snapshot) {
		list := make([]User, 0, len(snap))
		for _, d := range snap {
			list = append(list, Decode(d))
		}
		s.State.ReplaceAll(list)
	})
}

type Input struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (s *Service) Update(ctx context.Context, id string, in Input) error {
	if in.Name == "" {
		return apperr.InvalidErr("Name is required.", map[string]string{"name": "This field is required."})
	}
	if err := s.gw.Patch(ctx, Collection, id, docstore.Fields{
		"name":  in.Name,
		"phone": in.Phone,
	}); err != nil {
		return apperr.Wrap(err)
	}
	s.State.PatchItem(id, func(u *User) {
		u.Name = in.Name
		u.Phone = in.Phone
	})
	s.orch.Notify(mutate.Notification{Kind: mutate.NoteSuccess, Title: "Success!", Message: "User updated successfully."})
	return nil
}

// ActionDelete names the gated user delete; confirmation endpoints only
// accept tokens carrying it.
const ActionDelete = "delete-user"

// BeginDelete gates a hard delete; user documents are not soft-deleted.
func (s *Service) BeginDelete(id string) *mutate.Mutation {
	return s.orch.Begin(ActionDelete, []string{id})
}

func (s *Service) CancelDelete(m *mutate.Mutation) { s.orch.Cancel(m) }

func (s *Service) ConfirmDelete(ctx context.Context, m *mutate.Mutation) mutate.Result {
	res := s.orch.Confirm(ctx, m,
		mutate.Notification{Kind: mutate.NoteSuccess, Title: "Deleted!", Message: "User has been deleted."},
		func(ctx context.Context, id string) error {
			return s.gw.Remove(ctx, Collection, id)
		})
	if len(res.Done) > 0 {
		s.State.RemoveItems(res.Done)
	}
	return res
}
