package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/bracket-builder/brackets"
	"github.com/Dosada05/bracket-builder/services"
)

type WebSocketHandler struct {
	hub           *brackets.Hub
	importService services.ImportService
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// NewWebSocketHandler accepts any origin when allowedOrigins is empty or
// contains "*".
func NewWebSocketHandler(hub *brackets.Hub, importService services.ImportService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	anyOrigin := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub:           hub,
		importService: importService,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs обрабатывает GET /ws/events/{eventID}. The screen receives a
// BRACKET_GENERATED message each time a bracket of the event is generated.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.importService.GetEvent(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту, здесь просто логируем.
		h.logger.Warn("websocket upgrade failed", "event_id", id, "error", err)
		return
	}

	client := brackets.NewClient(h.hub, conn, brackets.EventRoom(id))
	if !h.hub.Join(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("display screen connected", "event_id", id, "room", client.Room)
}
