package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/craftfolio/craftfolio-backend/internal/database"
)

// PreviewEvent is broadcast over Redis whenever a template is saved, so
// other open tabs and public viewers can refresh their preview.
type PreviewEvent struct {
	Type       string    `json:"type"` // "updated", "deleted", "published"
	TemplateID string    `json:"template_id"`
	UserID     string    `json:"user_id,omitempty"`
	Version    int       `json:"version,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// ViewerConn is the minimal interface the WebSocket gateway must satisfy.
type ViewerConn interface {
	WriteJSON(v interface{}) error
	ReadJSON(dest interface{}) error
	Close() error
}

type previewViewer struct {
	conn       ViewerConn
	templateID string
}

// previewHub is a per-instance registry of viewer connections keyed by
// template id. Cross-instance delivery goes through Redis pub/sub.
type previewHub struct {
	mu      sync.RWMutex
	viewers map[*previewViewer]struct{}
}

var (
	hub            = &previewHub{viewers: make(map[*previewViewer]struct{})}
	previewSubOnce sync.Once
)

// RegisterViewer attaches a connection to a template's preview stream and
// returns an unregister func the gateway defers.
func RegisterViewer(templateID string, conn ViewerConn) func() {
	v := &previewViewer{conn: conn, templateID: templateID}

	hub.mu.Lock()
	hub.viewers[v] = struct{}{}
	hub.mu.Unlock()

	return func() {
		hub.mu.Lock()
		delete(hub.viewers, v)
		hub.mu.Unlock()
	}
}

// FanOutPreviewEvent sends an event to all local viewers of that template.
func FanOutPreviewEvent(event PreviewEvent) {
	if event.TemplateID == "" {
		return
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for v := range hub.viewers {
		if v.templateID != event.TemplateID {
			continue
		}

		// Non-blocking best-effort send.
		go func(c ViewerConn) {
			if err := c.WriteJSON(event); err != nil {
				log.Printf("error writing preview event to websocket: %v", err)
			}
		}(v.conn)
	}
}

// StartRedisPreviewSubscriber ensures a single shared Redis listener per instance.
func StartRedisPreviewSubscriber(ctx context.Context) {
	previewSubOnce.Do(func() {
		go runPreviewSubscriber(ctx)
	})
}

func runPreviewSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; preview subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, "preview:template:*")
			defer pubsub.Close()

			log.Println("✅ Preview Redis subscriber started (pattern: preview:template:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event PreviewEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal preview event: %v", err)
					continue
				}

				FanOutPreviewEvent(event)
			}
		}()
	}
}

// PublishPreviewEvent publishes an event to Redis; called after template
// writes. Errors are the caller's to log, saves never fail on this.
func PublishPreviewEvent(ctx context.Context, event PreviewEvent) error {
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	channel := "preview:template:" + event.TemplateID
	return database.RedisClient.Publish(ctx, channel, data).Err()
}
