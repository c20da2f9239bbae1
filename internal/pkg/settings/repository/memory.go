package repository

import (
	"strings"
	"sync"

	"group_guard_bot/internal/pkg/settings/domain"
)

// MemoryStore is the in-memory Store used by tests and local runs
// without a database.
type MemoryStore struct {
	settings  map[string]string
	filters   map[string]bool
	groupLogs map[string]string
	mu        sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings: map[string]string{
			domain.KeyGroupID:     domain.Unset,
			domain.KeyWelcomeText: domain.Unset,
			domain.KeyWelcomeBtn:  domain.Unset,
		},
		filters:   make(map[string]bool),
		groupLogs: make(map[string]string),
	}
}

func (m *MemoryStore) GetSetting(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.settings[key]
	if !ok {
		return domain.Unset, nil
	}
	return value, nil
}

func (m *MemoryStore) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *MemoryStore) ListFilters() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	words := make([]string, 0, len(m.filters))
	for w := range m.filters {
		words = append(words, w)
	}
	return words, nil
}

func (m *MemoryStore) AddFilter(word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters[strings.ToLower(word)] = true
	return nil
}

func (m *MemoryStore) RemoveFilter(word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.filters, strings.ToLower(word))
	return nil
}

func (m *MemoryStore) ListGroupLogs() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	logs := make(map[string]string, len(m.groupLogs))
	for k, v := range m.groupLogs {
		logs[k] = v
	}
	return logs, nil
}

func (m *MemoryStore) SetGroupLog(groupID, logChatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groupLogs[groupID] = logChatID
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
