package builder

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// LocalSaveDelay is how long the auto-saver waits after the last change
// before writing to storage.
const LocalSaveDelay = time.Second

// AutoSaver persists the working document to a Storage one second after
// the last change. Save failures are logged and swallowed; the document in
// memory stays authoritative.
type AutoSaver struct {
	store    *Store
	storage  Storage
	debounce *Debouncer
}

// NewAutoSaver attaches an auto-saver to the store. Every mutation arms the
// debounce timer.
func NewAutoSaver(store *Store, storage Storage) *AutoSaver {
	a := &AutoSaver{store: store, storage: storage}
	a.debounce = NewDebouncer(LocalSaveDelay, a.Flush)
	store.Subscribe(func(models.PortfolioData, string) {
		a.debounce.Trigger()
	})
	return a
}

// Flush writes the current snapshot immediately.
func (a *AutoSaver) Flush() {
	data := a.store.Snapshot()
	blob, err := json.Marshal(data)
	if err != nil {
		log.Printf("auto-save: failed to encode portfolio data: %v", err)
		return
	}
	if err := a.storage.Save(KeyPortfolioData, blob); err != nil {
		log.Printf("auto-save: failed to save portfolio data: %v", err)
		return
	}
	if err := a.storage.Save(KeyCurrentTemplate, []byte(a.store.TemplateID())); err != nil {
		log.Printf("auto-save: failed to save current template: %v", err)
	}
}

// Stop cancels any pending save.
func (a *AutoSaver) Stop() {
	a.debounce.Stop()
}

// Load restores the saved document into the store, merging over zero-value
// defaults. A missing blob is not an error; corrupt blobs are.
func (a *AutoSaver) Load() error {
	var data models.PortfolioData
	blob, err := a.storage.Load(KeyPortfolioData)
	switch {
	case errors.Is(err, ErrNotFound):
		// Nothing saved yet.
	case err != nil:
		return err
	default:
		if err := json.Unmarshal(blob, &data); err != nil {
			return err
		}
	}

	templateID := a.store.TemplateID()
	if saved, err := a.storage.Load(KeyCurrentTemplate); err == nil && len(saved) > 0 {
		templateID = string(saved)
	}

	a.store.Restore(data, templateID)
	return nil
}
