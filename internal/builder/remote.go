package builder

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// RemoteSaveDelay is the debounce window for network saves, deliberately
// longer than the local one.
const RemoteSaveDelay = 2 * time.Second

// TemplateAPI is the slice of the backend the remote saver needs: create a
// template, then patch it on every later save.
type TemplateAPI interface {
	CreateTemplate(ctx context.Context, templateName string, data models.PortfolioData) (id string, err error)
	PatchTemplate(ctx context.Context, id string, templateName string, data models.PortfolioData) error
}

// RemoteSaver pushes the document to the backend two seconds after the
// last change. The first successful save records the template id; later
// saves patch it. Network failures are logged and skipped, so the next
// fire simply re-sends the latest document and the last write wins.
type RemoteSaver struct {
	store    *Store
	api      TemplateAPI
	debounce *Debouncer
	timeout  time.Duration

	mu         sync.Mutex
	templateID string
}

// NewRemoteSaver attaches a remote saver to the store. If the document was
// already saved before, pass its id as knownID; pass "" to create on first
// save.
func NewRemoteSaver(store *Store, api TemplateAPI, knownID string) *RemoteSaver {
	r := &RemoteSaver{store: store, api: api, timeout: 10 * time.Second, templateID: knownID}
	r.debounce = NewDebouncer(RemoteSaveDelay, r.save)
	store.Subscribe(func(models.PortfolioData, string) {
		r.debounce.Trigger()
	})
	return r
}

// RemoteID returns the backend id of the saved template, or "" before the
// first successful create.
func (r *RemoteSaver) RemoteID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.templateID
}

// Stop cancels any pending save.
func (r *RemoteSaver) Stop() {
	r.debounce.Stop()
}

func (r *RemoteSaver) save() {
	data := r.store.Snapshot()
	templateName := ServerTemplateName(r.store.TemplateID())

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	r.mu.Lock()
	id := r.templateID
	r.mu.Unlock()

	if id == "" {
		newID, err := r.api.CreateTemplate(ctx, templateName, data)
		if err != nil {
			log.Printf("auto-save: create failed, will retry on next change: %v", err)
			return
		}
		r.mu.Lock()
		r.templateID = newID
		r.mu.Unlock()
		return
	}

	if err := r.api.PatchTemplate(ctx, id, templateName, data); err != nil {
		log.Printf("auto-save: patch failed, will retry on next change: %v", err)
	}
}
