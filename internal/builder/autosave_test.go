package builder

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// countingStorage wraps MemoryStorage and counts document writes.
type countingStorage struct {
	*MemoryStorage
	mu    sync.Mutex
	saves int
}

func (c *countingStorage) Save(key string, data []byte) error {
	if key == KeyPortfolioData {
		c.mu.Lock()
		c.saves++
		c.mu.Unlock()
	}
	return c.MemoryStorage.Save(key, data)
}

func (c *countingStorage) saveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

func TestAutoSaveCoalescesBurstIntoOneWrite(t *testing.T) {
	storage := &countingStorage{MemoryStorage: NewMemoryStorage()}
	store := NewStore()
	saver := NewAutoSaver(store, storage)
	defer saver.Stop()

	for i := 0; i < 5; i++ {
		_, err := store.AddSkill(models.Skill{Name: "Skill"})
		require.NoError(t, err)
	}

	// Five changes inside the window collapse into one save.
	assert.Eventually(t, func() bool { return storage.saveCount() == 1 },
		3*time.Second, 10*time.Millisecond)

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, 1, storage.saveCount())
}

func TestAutoSaveSpacedChangesWriteEach(t *testing.T) {
	storage := &countingStorage{MemoryStorage: NewMemoryStorage()}
	store := NewStore()
	saver := NewAutoSaver(store, storage)
	defer saver.Stop()

	for i := 0; i < 2; i++ {
		_, err := store.AddSkill(models.Skill{Name: "Skill"})
		require.NoError(t, err)
		time.Sleep(LocalSaveDelay + 300*time.Millisecond)
	}

	assert.Equal(t, 2, storage.saveCount())
}

func TestStorageRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore()
	saver := NewAutoSaver(store, storage)
	defer saver.Stop()

	store.SetPersonal(models.PersonalInfo{FullName: "Dana Smith", Email: "dana@example.com"})
	_, err := store.AddProject(models.Project{Name: "Craftfolio", Description: "Portfolio builder"})
	require.NoError(t, err)
	require.NoError(t, store.SelectTemplate(TemplateClassic))
	saver.Flush()

	// A fresh store fed from the same storage sees an equal document.
	restored := NewStore()
	restoredSaver := NewAutoSaver(restored, storage)
	defer restoredSaver.Stop()
	require.NoError(t, restoredSaver.Load())

	assert.Equal(t, store.Snapshot(), restored.Snapshot())
	assert.Equal(t, TemplateClassic, restored.TemplateID())
}

func TestLoadWithEmptyStorage(t *testing.T) {
	store := NewStore()
	saver := NewAutoSaver(store, NewMemoryStorage())
	defer saver.Stop()

	require.NoError(t, saver.Load())
	assert.True(t, store.Snapshot().IsEmpty())
	assert.Equal(t, DefaultTemplateID, store.TemplateID())
}

func TestLoadRejectsCorruptBlob(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(KeyPortfolioData, []byte("{not json")))

	store := NewStore()
	saver := NewAutoSaver(store, storage)
	defer saver.Stop()

	assert.Error(t, saver.Load())
}

func TestFileStorageRoundTrip(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	doc := models.PortfolioData{Personal: models.PersonalInfo{FullName: "Dana"}}
	blob, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, storage.Save(KeyPortfolioData, blob))

	loaded, err := storage.Load(KeyPortfolioData)
	require.NoError(t, err)
	assert.JSONEq(t, string(blob), string(loaded))

	_, err = storage.Load("unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}
