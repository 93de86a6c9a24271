package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/orders"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/products"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/queries"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/resetauth"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/users"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/notify"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Session auth already ran; the admin UI and the API share an origin
	// behind the same reverse proxy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// LiveHandler streams list-screen snapshots and the notification feed over
// websockets. Each connection tracks exactly one channel; a new full payload
// is pushed on every state change.
type LiveHandler struct {
	Products *products.Service
	Orders   *orders.Service
	Users    *users.Service
	Queries  *queries.Service
	Reset    *resetauth.Service
	Notify   *notify.Hub
	Log      *slog.Logger
}

func (h *LiveHandler) Stream(c *gin.Context) {
	channel := c.Param("channel")
	if channel == "notifications" {
		h.streamNotifications(c)
		return
	}

	var view func() gin.H
	var subscribe func(fn func()) func()
	switch channel {
	case "products":
		st, proj := h.Products.State, products.Projection()
		view = func() gin.H { return listPayload(st, proj) }
		subscribe = st.Subscribe
	case "orders":
		st, proj := h.Orders.State, orders.Projection()
		view = func() gin.H { return listPayload(st, proj) }
		subscribe = st.Subscribe
	case "users":
		st, proj := h.Users.State, users.Projection()
		view = func() gin.H { return listPayload(st, proj) }
		subscribe = st.Subscribe
	case "queries":
		st, proj := h.Queries.State, queries.Projection()
		view = func() gin.H { return listPayload(st, proj) }
		subscribe = st.Subscribe
	case "reset-logs":
		st, proj := h.Reset.State, resetauth.LogProjection()
		view = func() gin.H { return listPayload(st, proj) }
		subscribe = st.Subscribe
	default:
		middleware.Fail(c, apperr.NotFoundErr("Unknown live channel."))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	updates := make(chan struct{}, 1)
	unsub := subscribe(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer unsub()

	closed := readUntilClose(conn)

	send := func() error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(view())
	}
	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-updates:
			if err := send(); err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) streamNotifications(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ch, unsub := h.Notify.Subscribe()
	defer unsub()

	closed := readUntilClose(conn)
	for {
		select {
		case <-closed:
			return
		case n := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteJSON(gin.H{
				"kind":    string(n.Kind),
				"title":   n.Title,
				"message": n.Message,
			})
			if err != nil {
				return
			}
		}
	}
}

// readUntilClose drains incoming frames so close handshakes and pings are
// processed, and reports when the peer goes away.
func readUntilClose(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}
