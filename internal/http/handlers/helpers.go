package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

// listPayload is the wire shape shared by every list screen: the projected
// rows plus the view state the client needs to render chrome around them.
func listPayload[T liststate.Record](st *liststate.Store[T], proj liststate.Projection[T]) gin.H {
	v := st.View()
	ids := proj.ProjectIDs(v)
	return gin.H{
		"items":       proj.Project(v),
		"loading":     v.Loading,
		"search":      v.Search,
		"filter":      v.Filter,
		"sort":        v.Sort,
		"selected":    st.SelectedIDs(),
		"allSelected": st.AllVisibleSelected(ids),
	}
}

// applyViewQuery copies search/filter/sort query params, when present, into
// the screen state before projecting.
func applyViewQuery[T liststate.Record](c *gin.Context, st *liststate.Store[T]) {
	if v, ok := c.GetQuery("search"); ok {
		st.SetSearch(v)
	}
	if v, ok := c.GetQuery("filter"); ok {
		st.SetFilter(v)
	}
	if v, ok := c.GetQuery("sort"); ok {
		st.SetSort(v)
	}
}

// pendingMutation resolves the confirmation token in the request body. The
// token must belong to the action the endpoint confirms, so a token for one
// screen's mutation can never drive another screen's confirm.
func pendingMutation(c *gin.Context, orch *mutate.Orchestrator, action string) (*mutate.Mutation, bool) {
	var in tokenInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("A mutation token is required.", nil))
		return nil, false
	}
	m, ok := orch.Get(mutate.Token(in.Token))
	if !ok || m.Action != action {
		middleware.Fail(c, apperr.NotFoundErr("No pending mutation for that token."))
		return nil, false
	}
	return m, true
}

func pendingJSON(m *mutate.Mutation, title, message string) gin.H {
	return gin.H{
		"token":  m.Token,
		"action": m.Action,
		"ids":    m.IDs,
		"confirm": gin.H{
			"title":   title,
			"message": message,
		},
	}
}

func resultJSON(res mutate.Result) gin.H {
	out := gin.H{"token": res.Token, "done": res.Done, "ok": res.OK()}
	if res.Err != nil {
		out["failedId"] = res.FailedID
		out["error"] = res.Err.Error()
	}
	return out
}

type tokenInput struct {
	Token string `json:"token" binding:"required"`
}

type idsInput struct {
	IDs []string `json:"ids"`
}
