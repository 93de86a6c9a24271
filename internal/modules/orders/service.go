package orders

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

var (
	// ErrDeliveredLocked marks a transition refused locally: delivered is
	// terminal and no gateway call is made.
	ErrDeliveredLocked = errors.New("orders: delivered orders cannot be updated")
	ErrInvalidStatus   = errors.New("orders: invalid order status")
)

// Service owns the orders screen. Orders are created by an external checkout;
// the only admin mutation is the status transition.
type Service struct {
	gw   docstore.Store
	orch *mutate.Orchestrator
	log  *slog.Logger

	State *liststate.Store[Order]
}

func NewService(gw docstore.Store, orch *mutate.Orchestrator, log *slog.Logger) *Service {
	return &Service{
		gw:    gw,
		orch:  orch,
		log:   log,
		State: liststate.New[Order]("", ""),
	}
}

func (s *Service) Start(ctx context.Context) (func(), error) {
	q := docstore.Query{Collection: Collection, OrderBy: "createdAt", Desc: true}
	return s.gw.Subscribe(ctx, q, func(snap docstore.Snapshot) {
		list := make([]Order, 0, len(snap))
		for _, d := range snap {
			list = append(list, Decode(d))
		}
		s.State.ReplaceAll(list)
	})
}

// ActionDeliver names the gated delivered transition; confirmation endpoints
// only accept tokens carrying it.
const ActionDeliver = "deliver-order"

// Transition moves one order to a new status.
//
// Rules: anything away from delivered is rejected locally with a "locked"
// notification; a transition *to* delivered returns a pending mutation that
// must go through ConfirmDeliver; the remaining transitions run immediately.
func (s *Service) Transition(ctx context.Context, id, to string) (*mutate.Mutation, error) {
	if !ValidStatus(to) {
		return nil, apperr.InvalidErr("Unknown order status.", nil)
	}

	cur, ok := s.find(id)
	if !ok {
		return nil, apperr.NotFoundErr("Order not found.")
	}
	if cur.Delivered() {
		s.orch.Locked("Locked", "Delivered orders cannot be updated.")
		return nil, ErrDeliveredLocked
	}

	if to == StatusDelivered {
		return s.orch.Begin(ActionDeliver, []string{id}), nil
	}

	res := s.orch.Run(ctx, "order-status", []string{id},
		mutate.Notification{Kind: mutate.NoteSuccess, Title: "Success!", Message: "Order status updated."},
		s.patchStep(to))
	if !res.OK() {
		return nil, apperr.Wrap(res.Err)
	}
	s.applyLocal(id, to)
	return nil, nil
}

// ConfirmDeliver completes a gated transition to delivered. Once applied the
// order is locked for good.
func (s *Service) ConfirmDeliver(ctx context.Context, m *mutate.Mutation) error {
	res := s.orch.Confirm(ctx, m,
		mutate.Notification{Kind: mutate.NoteSuccess, Title: "Success!", Message: "Order status updated."},
		s.patchStep(StatusDelivered))
	if !res.OK() {
		return apperr.Wrap(res.Err)
	}
	for _, id := range res.Done {
		s.applyLocal(id, StatusDelivered)
	}
	return nil
}

func (s *Service) CancelDeliver(m *mutate.Mutation) { s.orch.Cancel(m) }

// patchStep writes the status to both the top-level field and the legacy
// shipping.status mirror the mobile app still reads.
func (s *Service) patchStep(to string) func(ctx context.Context, id string) error {
	return func(ctx context.Context, id string) error {
		return s.gw.Patch(ctx, Collection, id, docstore.Fields{
			"status":          to,
			"shipping.status": to,
		})
	}
}

func (s *Service) applyLocal(id, to string) {
	s.State.PatchItem(id, func(o *Order) { o.Status = to })
}

func (s *Service) find(id string) (Order, bool) {
	for _, o := range s.State.View().Items {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}
