package usecase

import (
	"time"

	settingsdomain "group_guard_bot/internal/pkg/settings/domain"
)

// Platform is the chat-platform collaborator. All calls are best-effort from
// the pipeline's point of view: failures are logged and never abort
// processing.
type Platform interface {
	Send(chatID string, text string, button *settingsdomain.WelcomeButton) (messageID int, err error)
	Delete(chatID string, messageID int) error
	Restrict(chatID string, userID int64, until time.Time) error
	GetAdministrators(chatID string) ([]int64, error)
}

// Settings yields the current configuration snapshot.
type Settings interface {
	Get() *settingsdomain.Snapshot
}
