package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/craftfolio/craftfolio-backend/internal/services"
)

var previewUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// PreviewWebSocket streams template-update events to a connected viewer so
// open editor tabs and shared previews refresh without polling. The
// connection is bound to a single template via the `template_id` query
// parameter; authentication is optional because public templates have
// public previews.
func PreviewWebSocket(w http.ResponseWriter, r *http.Request) {
	templateID := r.URL.Query().Get("template_id")
	if templateID == "" {
		writeError(w, http.StatusBadRequest, "template_id is required")
		return
	}
	if _, err := primitive.ObjectIDFromHex(templateID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid template_id")
		return
	}

	conn, err := previewUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	unregister := services.RegisterViewer(templateID, conn)
	defer unregister()

	// Reader loop exists only to detect disconnects and answer pings.
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	}
}
