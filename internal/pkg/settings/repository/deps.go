package repository

// Store is the durable settings backend: a key-value settings table, a
// banned-word set and the group→log-chat mapping. The moderation side only
// reads; the admin command surface writes and then refreshes the cache.
type Store interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	ListFilters() ([]string, error)
	AddFilter(word string) error
	RemoveFilter(word string) error

	ListGroupLogs() (map[string]string, error)
	SetGroupLog(groupID, logChatID string) error

	Close() error
}
