package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/middleware"
	"github.com/SscSPs/audit_portal/internal/realtime"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
)

const wsWriteTimeout = 5 * time.Second

// Control frames written back to the socket.
const (
	wsEventReady    = "ready"
	wsEventJoined   = "joined"
	wsEventLeft     = "left"
	wsEventRejected = "rejected"
)

type wsHandler struct {
	hub            *realtime.Hub
	originPatterns []string
}

// registerRealtimeRoutes mounts the websocket subscription endpoint.
func registerRealtimeRoutes(rg *gin.RouterGroup, hub *realtime.Hub, allowedOrigins []string) {
	h := &wsHandler{hub: hub, originPatterns: wsOriginPatterns(allowedOrigins)}
	rg.GET("/ws", h.subscribe)
}

// subscribe godoc
// @Summary Real-time updates
// @Description Upgrades to a websocket. Send {"action":"join","channel":"role:client"} to listen on your role channel or your account channel.
// @Tags realtime
// @Param token query string false "Session token when the Authorization header cannot be set"
// @Success 101
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ws [get]
func (h *wsHandler) subscribe(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	opts := &websocket.AcceptOptions{}
	if len(h.originPatterns) > 0 {
		opts.OriginPatterns = h.originPatterns
	}
	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		logger.Warn("Websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	sub := h.hub.Subscribe(realtime.DefaultBuffer)
	defer h.hub.Unsubscribe(sub)

	allowed := map[string]bool{
		string(domain.RoleAudience(caller.Role)):         true,
		string(domain.AccountAudience(caller.AccountID)): true,
	}
	logger.Info("Websocket connected", slog.Int("connections", h.hub.Connections()))

	_ = h.write(ctx, conn, realtime.Message{Event: wsEventReady})
	readErr := make(chan error, 1)
	go func() {
		for {
			var frame dto.ChannelFrame
			if err := wsjson.Read(ctx, conn, &frame); err != nil {
				readErr <- err
				return
			}
			h.handleFrame(ctx, conn, sub, allowed, frame, logger)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case err := <-readErr:
			logger.Debug("Websocket read ended", slog.String("error", err.Error()))
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case msg, ok := <-sub.C():
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "shutting down")
				return
			}
			if err := h.write(ctx, conn, msg); err != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
				return
			}
		}
	}
}

func (h *wsHandler) handleFrame(ctx context.Context, conn *websocket.Conn, sub *realtime.Subscriber, allowed map[string]bool, frame dto.ChannelFrame, logger *slog.Logger) {
	channel := strings.TrimSpace(frame.Channel)
	if !allowed[channel] {
		logger.Warn("Websocket channel refused", slog.String("channel", channel))
		_ = h.write(ctx, conn, realtime.Message{Event: wsEventRejected, Channel: channel})
		return
	}

	switch frame.Action {
	case "join":
		h.hub.Join(sub, channel)
		_ = h.write(ctx, conn, realtime.Message{Event: wsEventJoined, Channel: channel})
	case "leave":
		h.hub.Leave(sub, channel)
		_ = h.write(ctx, conn, realtime.Message{Event: wsEventLeft, Channel: channel})
	default:
		_ = h.write(ctx, conn, realtime.Message{Event: wsEventRejected, Channel: channel})
	}
}

func (h *wsHandler) write(ctx context.Context, conn *websocket.Conn, msg realtime.Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, msg)
}

// wsOriginPatterns turns CORS origins into the host patterns the websocket library matches.
func wsOriginPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		o = strings.TrimSuffix(o, "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
