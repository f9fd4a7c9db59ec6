package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/cvcraft/internal/services"
	"github.com/yoockh/cvcraft/internal/utils"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsPingEvery    = 25 * time.Second
	wsMaxMessage   = 1 << 20
)

// WSHandler serves live editing sessions. Each connection owns one draft
// and applies client messages strictly in arrival order.
type WSHandler struct {
	resumes  services.ResumeService
	exports  services.ExportService
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(resumes services.ResumeService, exports services.ExportService, log *logrus.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		resumes: resumes,
		exports: exports,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

// originChecker allows any origin when the list is empty.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.c.WriteJSON(v)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

func (h *WSHandler) EditResume(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	resumeID := c.Param("resume_id")
	if resumeID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.EditResume", "missing resume_id", nil))
		return
	}

	// load before upgrading so ownership failures get a plain HTTP answer
	session, first, err := services.OpenEditor(c.Request.Context(), h.resumes, h.exports, userID, resumeID, c.Query("template"))
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	log := h.log.WithFields(logrus.Fields{"user_id": userID, "resume_id": resumeID})
	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	if err := wc.writeJSON(first); err != nil {
		return
	}

	go func() {
		t := time.NewTicker(wsPingEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := wc.ping(); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("live edit connection dropped")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var msg services.EditorMessage
		var ev services.EditorEvent
		if err := json.Unmarshal(data, &msg); err != nil {
			ev = services.EditorEvent{Type: services.EventError, Code: utils.CodeInvalidArgument, Error: "invalid json"}
		} else {
			ev = session.Handle(ctx, msg)
		}

		if ev.Type == services.EventError && ev.Code != utils.CodeInvalidArgument && ev.Code != utils.CodeValidation && ev.Code != utils.CodeOutOfRange {
			log.WithFields(logrus.Fields{"message_type": msg.Type, "code": ev.Code}).Warn(ev.Error)
		}
		if err := wc.writeJSON(ev); err != nil {
			return
		}
	}
}
