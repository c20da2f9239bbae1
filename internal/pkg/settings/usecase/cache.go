package usecase

import (
	"sync"

	"group_guard_bot/internal/pkg/settings/domain"
	"group_guard_bot/internal/pkg/settings/repository"
)

// Cache is the read-through settings cache. Every moderation decision reads
// the current snapshot from here; the admin surface calls Refresh after each
// write, so readers are never more than one write behind. Refresh swaps the
// whole snapshot in one assignment — readers never see a half-updated state.
type Cache struct {
	store    repository.Store
	snapshot *domain.Snapshot
	mu       sync.RWMutex
}

func NewCache(store repository.Store) *Cache {
	return &Cache{store: store}
}

// Refresh re-reads all settings, filters and log mappings from the store.
// Must be called once before the bot starts polling; a failed initial load
// is fatal to the caller.
func (c *Cache) Refresh() error {
	groupID, err := c.store.GetSetting(domain.KeyGroupID)
	if err != nil {
		return err
	}
	welcomeText, err := c.store.GetSetting(domain.KeyWelcomeText)
	if err != nil {
		return err
	}
	welcomeBtn, err := c.store.GetSetting(domain.KeyWelcomeBtn)
	if err != nil {
		return err
	}
	words, err := c.store.ListFilters()
	if err != nil {
		return err
	}
	groupLogs, err := c.store.ListGroupLogs()
	if err != nil {
		return err
	}

	snapshot := &domain.Snapshot{
		Config: domain.GroupConfig{
			TargetGroupID: groupID,
			WelcomeText:   welcomeText,
			WelcomeBtnRaw: welcomeBtn,
		},
		Filters:   domain.NewFilterSet(words),
		GroupLogs: groupLogs,
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()
	return nil
}

// Get returns the current snapshot. Nil until the first Refresh.
func (c *Cache) Get() *domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}
