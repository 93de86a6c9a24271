package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/validation"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/images"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/products"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

// maxUploadBytes bounds a single gallery upload request.
const maxUploadBytes = 32 << 20

type ProductsHandler struct {
	Svc  *products.Service
	Orch *mutate.Orchestrator

	proj liststate.Projection[products.Product]
}

func NewProductsHandler(svc *products.Service, orch *mutate.Orchestrator) *ProductsHandler {
	return &ProductsHandler{Svc: svc, Orch: orch, proj: products.Projection()}
}

func (h *ProductsHandler) List(c *gin.Context) {
	applyViewQuery(c, h.Svc.State)
	payload := listPayload(h.Svc.State, h.proj)
	v := h.Svc.State.View()
	payload["editing"] = v.Editing
	payload["adding"] = v.Adding
	payload["uploadProgress"] = v.UploadProgress
	c.JSON(http.StatusOK, payload)
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var in products.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Please check the form.", errs))
		return
	}
	id, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ProductsHandler) Update(c *gin.Context) {
	var in products.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Please check the form.", errs))
		return
	}
	if err := h.Svc.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ToggleSelect flips one row's checkbox.
func (h *ProductsHandler) ToggleSelect(c *gin.Context) {
	h.Svc.State.ToggleSelect(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"selected": h.Svc.State.SelectedIDs()})
}

// SelectAll selects every currently visible row. Rows hidden by the active
// search or filter are left alone.
func (h *ProductsHandler) SelectAll(c *gin.Context) {
	ids := h.proj.ProjectIDs(h.Svc.State.View())
	h.Svc.State.SelectAllVisible(ids)
	c.JSON(http.StatusOK, gin.H{"selected": h.Svc.State.SelectedIDs()})
}

func (h *ProductsHandler) ClearSelection(c *gin.Context) {
	h.Svc.State.ClearSelection()
	c.JSON(http.StatusOK, gin.H{"selected": []string{}})
}

// Delete opens the confirmation gate for a soft-delete batch. The body may
// name explicit ids; when it does not, the current selection is used.
func (h *ProductsHandler) Delete(c *gin.Context) {
	var in idsInput
	_ = c.ShouldBindJSON(&in)
	ids := in.IDs
	if len(ids) == 0 {
		ids = h.Svc.State.SelectedIDs()
	}
	if len(ids) == 0 {
		middleware.Fail(c, apperr.InvalidErr("Select at least one product.", nil))
		return
	}
	m := h.Svc.BeginDelete(ids)
	c.JSON(http.StatusAccepted, pendingJSON(m, "Are you sure?", "Selected products will be deleted."))
}

func (h *ProductsHandler) ConfirmDelete(c *gin.Context) {
	m, ok := h.pending(c)
	if !ok {
		return
	}
	res := h.Svc.ConfirmDelete(c.Request.Context(), m)
	c.JSON(http.StatusOK, resultJSON(res))
}

func (h *ProductsHandler) CancelDelete(c *gin.Context) {
	m, ok := h.pending(c)
	if !ok {
		return
	}
	h.Svc.CancelDelete(m)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProductsHandler) pending(c *gin.Context) (*mutate.Mutation, bool) {
	return pendingMutation(c, h.Orch, products.ActionDelete)
}

// StartAdding opens a blank add-product draft.
func (h *ProductsHandler) StartAdding(c *gin.Context) {
	h.Svc.StartAdding()
	c.JSON(http.StatusOK, gin.H{"draft": h.Svc.State.Draft()})
}

// StartEditing seeds the edit draft from the row as currently synced.
func (h *ProductsHandler) StartEditing(c *gin.Context) {
	id := c.Param("id")
	for _, p := range h.Svc.State.View().Items {
		if p.ID == id {
			h.Svc.State.StartEditing(p)
			c.JSON(http.StatusOK, gin.H{"draft": h.Svc.State.Draft()})
			return
		}
	}
	middleware.Fail(c, apperr.NotFoundErr("Product not found."))
}

type productPatch struct {
	Title         *string  `json:"title"`
	Subtitle      *string  `json:"subtitle"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
	Ribbon        *string  `json:"ribbon"`
	Weight        *string  `json:"weight"`
}

// PatchDraft merges the submitted fields into whichever draft is open.
// Absent fields are untouched.
func (h *ProductsHandler) PatchDraft(c *gin.Context) {
	var in productPatch
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid draft patch.", nil))
		return
	}
	h.Svc.State.PatchDraft(func(p *products.Product) {
		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Subtitle != nil {
			p.Subtitle = *in.Subtitle
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.DiscountPrice != nil {
			p.DiscountPrice = *in.DiscountPrice
		}
		if in.Ribbon != nil {
			p.Ribbon = *in.Ribbon
		}
		if in.Weight != nil {
			p.Weight = *in.Weight
		}
	})
	c.JSON(http.StatusOK, gin.H{"draft": h.Svc.State.Draft()})
}

func (h *ProductsHandler) DiscardDraft(c *gin.Context) {
	h.Svc.State.ClearEditing()
	h.Svc.State.ClearAdding()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SaveDraft validates and persists the open draft: an edit draft updates the
// existing document, an add draft creates a new one.
func (h *ProductsHandler) SaveDraft(c *gin.Context) {
	v := h.Svc.State.View()
	draft := h.Svc.State.Draft()
	if draft == nil {
		middleware.Fail(c, apperr.InvalidErr("No open draft.", nil))
		return
	}
	in := products.Input{
		Title:         draft.Title,
		Subtitle:      draft.Subtitle,
		Description:   draft.Description,
		Price:         draft.Price,
		DiscountPrice: draft.DiscountPrice,
		Ribbon:        draft.Ribbon,
		Weight:        draft.Weight,
		Images:        draft.Images,
	}
	if v.Editing != nil {
		if err := h.Svc.Update(c.Request.Context(), v.Editing.ID, in); err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": v.Editing.ID})
		return
	}
	id, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UploadImages accepts a multipart batch for the open draft's gallery.
func (h *ProductsHandler) UploadImages(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid upload.", nil))
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid upload.", nil))
		return
	}
	var files []images.File
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			middleware.Fail(c, apperr.InternalErr("Could not read the uploaded file.", err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			middleware.Fail(c, apperr.InternalErr("Could not read the uploaded file.", err))
			return
		}
		files = append(files, images.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	if len(files) == 0 {
		middleware.Fail(c, apperr.InvalidErr("No files in the upload.", nil))
		return
	}
	if err := h.Svc.UploadImages(c.Request.Context(), files); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": h.Svc.State.Draft()})
}

type imageURLInput struct {
	URL string `json:"url" binding:"required"`
}

func (h *ProductsHandler) RemoveImage(c *gin.Context) {
	var in imageURLInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("An image url is required.", nil))
		return
	}
	if err := h.Svc.RemoveImage(c.Request.Context(), in.URL); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": h.Svc.State.Draft()})
}

type reorderInput struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *ProductsHandler) ReorderImages(c *gin.Context) {
	var in reorderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid reorder request.", nil))
		return
	}
	h.Svc.ReorderImages(in.From, in.To)
	c.JSON(http.StatusOK, gin.H{"draft": h.Svc.State.Draft()})
}
