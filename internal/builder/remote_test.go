package builder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	creates   int
	patches   int
	failNext  bool
	lastName  string
	lastData  models.PortfolioData
	createdID string
}

func (f *fakeAPI) CreateTemplate(ctx context.Context, templateName string, data models.PortfolioData) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return "", errors.New("network down")
	}
	f.creates++
	f.lastName = templateName
	f.lastData = data
	f.createdID = "tmpl-1"
	return f.createdID, nil
}

func (f *fakeAPI) PatchTemplate(ctx context.Context, id string, templateName string, data models.PortfolioData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return errors.New("network down")
	}
	f.patches++
	f.lastName = templateName
	f.lastData = data
	return nil
}

func (f *fakeAPI) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.patches
}

func TestRemoteSaverCreatesThenPatches(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore()
	saver := NewRemoteSaver(store, api, "")
	defer saver.Stop()

	_, err := store.AddSkill(models.Skill{Name: "Go"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		creates, _ := api.counts()
		return creates == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "tmpl-1", saver.RemoteID())

	_, err = store.AddSkill(models.Skill{Name: "Redis"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		creates, patches := api.counts()
		return creates == 1 && patches == 1
	}, 5*time.Second, 20*time.Millisecond)

	api.mu.Lock()
	assert.Equal(t, ServerTemplateName(DefaultTemplateID), api.lastName)
	assert.Len(t, api.lastData.Skills, 2)
	api.mu.Unlock()
}

func TestRemoteSaverSkipsFailureAndRetriesOnNextChange(t *testing.T) {
	api := &fakeAPI{failNext: true}
	store := NewStore()
	saver := NewRemoteSaver(store, api, "")
	defer saver.Stop()

	_, err := store.AddSkill(models.Skill{Name: "Go"})
	require.NoError(t, err)

	// First fire fails; nothing recorded, no retry without a new change.
	time.Sleep(RemoteSaveDelay + 500*time.Millisecond)
	creates, patches := api.counts()
	assert.Zero(t, creates)
	assert.Zero(t, patches)
	assert.Empty(t, saver.RemoteID())

	// The next change re-sends the full latest document.
	_, err = store.AddSkill(models.Skill{Name: "Redis"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		creates, _ := api.counts()
		return creates == 1
	}, 5*time.Second, 20*time.Millisecond)

	api.mu.Lock()
	assert.Len(t, api.lastData.Skills, 2)
	api.mu.Unlock()
}

func TestRemoteSaverWithKnownIDPatchesDirectly(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore()
	saver := NewRemoteSaver(store, api, "existing-id")
	defer saver.Stop()

	store.SetPersonal(models.PersonalInfo{FullName: "Dana"})

	require.Eventually(t, func() bool {
		creates, patches := api.counts()
		return creates == 0 && patches == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "existing-id", saver.RemoteID())
}
