package products

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/images"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

// Service owns the products screen: one live subscription feeding the list
// state, plus the mutations the screen can issue.
type Service struct {
	gw       docstore.Store
	orch     *mutate.Orchestrator
	pipeline *images.Pipeline
	log      *slog.Logger

	State *liststate.Store[Product]
}

func NewService(gw docstore.Store, orch *mutate.Orchestrator, pipeline *images.Pipeline, log *slog.Logger) *Service {
	return &Service{
		gw:       gw,
		orch:     orch,
		pipeline: pipeline,
		log:      log,
		State:    liststate.New[Product](FilterAll, SortRelevant),
	}
}

// Start opens the live subscription. Soft-deleted products are filtered out
// after decode, so the default view never shows them.
func (s *Service) Start(ctx context.Context) (func(), error) {
	q := docstore.Query{Collection: Collection, OrderBy: "title"}
	return s.gw.Subscribe(ctx, q, func(snap docstore.Snapshot) {
		list := make([]Product, 0, len(snap))
		for _, d := range snap {
			p := Decode(d)
			if p.Deleted == 1 {
				continue
			}
			list = append(list, p)
		}
		s.State.ReplaceAll(list)
	})
}

// Input is the mutable field set of the add/edit forms.
type Input struct {
	Title         string   `json:"title" binding:"required"`
	Subtitle      string   `json:"subtitle"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discountPrice"`
	Ribbon        string   `json:"ribbon"`
	Weight        string   `json:"weight"`
	Images        []string `json:"images"`
}

func (s *Service) validateInput(in Input) error {
	if in.Title == "" {
		return apperr.InvalidErr("Product title is required.", map[string]string{"title": "This field is required."})
	}
	if in.Price <= 0 {
		return apperr.InvalidErr("Valid price is required.", map[string]string{"price": "Must be greater than zero."})
	}
	if in.DiscountPrice < 0 || in.DiscountPrice > in.Price {
		return apperr.InvalidErr("Discount price cannot exceed the price.", map[string]string{"discountPrice": "Must not exceed the price."})
	}
	if len(in.Images) == 0 {
		return apperr.InvalidErr("At least one image is required.", map[string]string{"images": "Add at least one image."})
	}
	if len(in.Images) > images.MaxPerProduct {
		return apperr.InvalidErr(fmt.Sprintf("A product can hold at most %d images.", images.MaxPerProduct), nil)
	}
	return nil
}

func (in Input) fields() docstore.Fields {
	return docstore.Fields{
		"title":         in.Title,
		"subtitle":      in.Subtitle,
		"description":   in.Description,
		"price":         in.Price,
		"discountPrice": in.DiscountPrice,
		"ribbon":        in.Ribbon,
		"weight":        in.Weight,
		"images":        in.Images,
		"deleted":       0,
	}
}

// Create persists the add-form draft. Timestamps are server-assigned by the
// gateway.
func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	if err := s.validateInput(in); err != nil {
		return "", err
	}
	id, err := s.gw.Create(ctx, Collection, in.fields())
	if err != nil {
		return "", apperr.Wrap(err)
	}
	s.State.ClearAdding()
	s.orch.Notify(mutate.Notification{Kind: mutate.NoteSuccess, Title: "Success!", Message: "Product added successfully."})
	return id, nil
}

// Update replaces every mutable field of one product (full replace, matching
// the edit form).
func (s *Service) Update(ctx context.Context, id string, in Input) error {
	if err := s.validateInput(in); err != nil {
		return err
	}
	fields := in.fields()
	delete(fields, "deleted") // edit form never resurrects a soft-deleted record
	if err := s.gw.Patch(ctx, Collection, id, fields); err != nil {
		return apperr.Wrap(err)
	}
	s.State.PatchItem(id, func(p *Product) {
		p.Title = in.Title
		p.Subtitle = in.Subtitle
		p.Description = in.Description
		p.Price = in.Price
		p.DiscountPrice = in.DiscountPrice
		p.Ribbon = in.Ribbon
		p.Weight = in.Weight
		p.Images = append([]string(nil), in.Images...)
	})
	s.State.ClearEditing()
	s.orch.Notify(mutate.Notification{Kind: mutate.NoteSuccess, Title: "Updated!", Message: "Product saved successfully."})
	return nil
}

// ActionDelete names the gated soft-delete batch; confirmation endpoints
// only accept tokens carrying it.
const ActionDelete = "delete-products"

// BeginDelete opens the confirmation gate for a (bulk) soft delete.
func (s *Service) BeginDelete(ids []string) *mutate.Mutation {
	return s.orch.Begin(ActionDelete, ids)
}

func (s *Service) CancelDelete(m *mutate.Mutation) { s.orch.Cancel(m) }

// ConfirmDelete flips deleted:1 on each id sequentially. Whatever completed
// before a failure stays deleted; the selection is cleared regardless.
func (s *Service) ConfirmDelete(ctx context.Context, m *mutate.Mutation) mutate.Result {
	res := s.orch.Confirm(ctx, m,
		mutate.Notification{Kind: mutate.NoteSuccess, Title: "Deleted!", Message: "Products has been deleted successfully.."},
		func(ctx context.Context, id string) error {
			return s.gw.Patch(ctx, Collection, id, docstore.Fields{"deleted": 1})
		})
	if len(res.Done) > 0 {
		s.State.RemoveItems(res.Done)
	}
	s.State.ClearSelection()
	return res
}

// StartAdding opens an empty add draft.
func (s *Service) StartAdding() {
	s.State.StartAdding(Product{Images: []string{}})
}

// UploadImages runs the image pipeline against the open draft and appends the
// collected URLs in one batch (no partial-list flicker).
func (s *Service) UploadImages(ctx context.Context, files []images.File) error {
	draft := s.State.Draft()
	if draft == nil {
		return apperr.InvalidErr("No product is open for editing.", nil)
	}
	res, err := s.pipeline.UploadAll(ctx, len(draft.Images), files, s.State.SetUploadProgress)
	if err != nil {
		return apperr.Wrap(err)
	}
	if len(res.URLs) > 0 {
		s.State.PatchDraft(func(p *Product) {
			p.Images = append(p.Images, res.URLs...)
		})
		s.orch.Notify(mutate.Notification{
			Kind:    mutate.NoteSuccess,
			Title:   "Upload Complete",
			Message: fmt.Sprintf("%d image(s) uploaded successfully.", len(res.URLs)),
		})
	}
	return nil
}

// RemoveImage deletes the object from storage, then detaches the URL from the
// draft. The persisted record is unaffected until save.
func (s *Service) RemoveImage(ctx context.Context, url string) error {
	if err := s.pipeline.Remove(ctx, url); err != nil {
		return apperr.InternalErr("Could not delete image.", err)
	}
	s.State.PatchDraft(func(p *Product) {
		// fresh slice; view snapshots share the old backing array
		kept := make([]string, 0, len(p.Images))
		for _, u := range p.Images {
			if u != url {
				kept = append(kept, u)
			}
		}
		p.Images = kept
	})
	s.orch.Notify(mutate.Notification{Kind: mutate.NoteSuccess, Title: "Deleted!", Message: "Image removed."})
	return nil
}

// ReorderImages moves one image within the open draft, one step per drag
// event.
func (s *Service) ReorderImages(from, to int) {
	s.State.PatchDraft(func(p *Product) {
		p.Images = images.Reorder(p.Images, from, to)
	})
	s.State.SetDraggingIndex(to)
}
