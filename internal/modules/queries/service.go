package queries

import (
	"context"
	"log/slog"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
)

// Service owns the customer queries screen. Queries arrive from the mobile
// contact form; the admin can only soft-delete them.
type Service struct {
	gw   docstore.Store
	orch *mutate.Orchestrator
	log  *slog.Logger

	State *liststate.Store[Query]
}

func NewService(gw docstore.Store, orch *mutate.Orchestrator, log *slog.Logger) *Service {
	return &Service{
		gw:    gw,
		orch:  orch,
		log:   log,
		State: liststate.New[Query]("", SortMostRecent),
	}
}

func (s *Service) Start(ctx context.Context) (func(), error) {
	q := docstore.Query{Collection: Collection, OrderBy: "createdAt", Desc: true}
	return s.gw.Subscribe(ctx, q, func(snap docstore.Snapshot) {
		list := make([]Query, 0, len(snap))
		for _, d := range snap {
			qr := Decode(d)
			if qr.Deleted == 1 {
				continue
			}
			list = append(list, qr)
		}
		s.State.ReplaceAll(list)
	})
}

// ActionDelete names the gated bulk delete; confirmation endpoints only
// accept tokens carrying it.
const ActionDelete = "delete-queries"

func (s *Service) BeginDelete(ids []string) *mutate.Mutation {
	return s.orch.Begin(ActionDelete, ids)
}

func (s *Service) CancelDelete(m *mutate.Mutation) { s.orch.Cancel(m) }

func (s *Service) ConfirmDelete(ctx context.Context, m *mutate.Mutation) mutate.Result {
	res := s.orch.Confirm(ctx, m,
		mutate.Notification{Kind: mutate.NoteSuccess, Title: "Deleted!", Message: "Selected queries were deleted."},
		func(ctx context.Context, id string) error {
			return s.gw.Patch(ctx, Collection, id, docstore.Fields{"deleted": 1})
		})
	if len(res.Done) > 0 {
		s.State.RemoveItems(res.Done)
	}
	s.State.ClearSelection()
	return res
}
