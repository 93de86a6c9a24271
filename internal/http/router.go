package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/auth"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/handlers"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/dashboard"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/orders"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/products"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/queries"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/resetauth"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/users"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/notify"
)

// Deps is everything the router needs wired before it can serve.
type Deps struct {
	Log     *slog.Logger
	Session middleware.SessionCfg

	Auth      *auth.Service
	Products  *products.Service
	Orders    *orders.Service
	Users     *users.Service
	Queries   *queries.Service
	Reset     *resetauth.Service
	Dashboard *dashboard.Service

	Orch   *mutate.Orchestrator
	Notify *notify.Hub
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.ErrorHandler(d.Log))
	r.Use(middleware.SessionMiddleware(d.Session))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := handlers.NewAuthHandler(d.Auth, d.Session)
	resetH := handlers.NewResetHandler(d.Reset)

	api := r.Group("/api")
	api.POST("/login", authH.Login)
	api.POST("/logout", authH.Logout)
	// the forgot-password RPC must work without a session
	api.POST("/admin/reset", resetH.Send)

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/me", authH.Me)

	dashH := handlers.NewDashboardHandler(d.Dashboard)
	admin.GET("/dashboard", dashH.Counts)

	prodH := handlers.NewProductsHandler(d.Products, d.Orch)
	admin.GET("/products", prodH.List)
	admin.POST("/products", prodH.Create)
	admin.PUT("/products/:id", prodH.Update)
	admin.POST("/products/:id/select", prodH.ToggleSelect)
	admin.POST("/products/select-all", prodH.SelectAll)
	admin.DELETE("/products/selection", prodH.ClearSelection)
	admin.POST("/products/delete", prodH.Delete)
	admin.POST("/products/delete/confirm", prodH.ConfirmDelete)
	admin.POST("/products/delete/cancel", prodH.CancelDelete)
	admin.POST("/products/draft", prodH.StartAdding)
	admin.POST("/products/:id/edit", prodH.StartEditing)
	admin.PATCH("/products/draft", prodH.PatchDraft)
	admin.DELETE("/products/draft", prodH.DiscardDraft)
	admin.POST("/products/draft/save", prodH.SaveDraft)
	admin.POST("/products/draft/images", prodH.UploadImages)
	admin.DELETE("/products/draft/images", prodH.RemoveImage)
	admin.POST("/products/draft/images/reorder", prodH.ReorderImages)

	ordH := handlers.NewOrdersHandler(d.Orders, d.Orch)
	admin.GET("/orders", ordH.List)
	admin.POST("/orders/:id/status", ordH.SetStatus)
	admin.POST("/orders/:id/status/confirm", ordH.ConfirmStatus)
	admin.POST("/orders/:id/status/cancel", ordH.CancelStatus)

	userH := handlers.NewUsersHandler(d.Users, d.Orch)
	admin.GET("/users", userH.List)
	admin.PUT("/users/:id", userH.Update)
	admin.POST("/users/:id/delete", userH.Delete)
	admin.POST("/users/delete/confirm", userH.ConfirmDelete)
	admin.POST("/users/delete/cancel", userH.CancelDelete)

	qH := handlers.NewQueriesHandler(d.Queries, d.Orch)
	admin.GET("/queries", qH.List)
	admin.POST("/queries/:id/select", qH.ToggleSelect)
	admin.POST("/queries/select-all", qH.SelectAll)
	admin.DELETE("/queries/selection", qH.ClearSelection)
	admin.POST("/queries/delete", qH.Delete)
	admin.POST("/queries/delete/confirm", qH.ConfirmDelete)
	admin.POST("/queries/delete/cancel", qH.CancelDelete)

	admin.GET("/reset-logs", resetH.Logs)

	liveH := &handlers.LiveHandler{
		Products: d.Products,
		Orders:   d.Orders,
		Users:    d.Users,
		Queries:  d.Queries,
		Reset:    d.Reset,
		Notify:   d.Notify,
		Log:      d.Log,
	}
	live := r.Group("/live")
	live.Use(middleware.RequireAdmin())
	live.GET("/:channel", liveH.Stream)

	return r
}
