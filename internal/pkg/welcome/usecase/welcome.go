package usecase

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	moddomain "group_guard_bot/internal/pkg/moderation/domain"
	settingsdomain "group_guard_bot/internal/pkg/settings/domain"
)

const DefaultDeleteDelay = 10 * time.Second

// Platform is the subset of the chat platform the welcome flow needs.
type Platform interface {
	Send(chatID string, text string, button *settingsdomain.WelcomeButton) (messageID int, err error)
	Delete(chatID string, messageID int) error
}

// Settings yields the current configuration snapshot.
type Settings interface {
	Get() *settingsdomain.Snapshot
}

// Auditor mirrors a compact log line to the group's log chat.
type Auditor interface {
	Log(groupID, line string)
}

// Flow greets actual joins with the configured welcome text and removes the
// greeting again after a short delay. Deletion runs on its own timer keyed
// by message id, off the event-handling path.
type Flow struct {
	platform Platform
	settings Settings
	audit    Auditor

	deleteDelay time.Duration

	timers map[int]*time.Timer
	mu     sync.Mutex

	// schedule is swappable so tests can drive deletion synchronously.
	schedule func(messageID int, d time.Duration, f func())
}

func NewFlow(platform Platform, settings Settings, audit Auditor, deleteDelay time.Duration) *Flow {
	if deleteDelay <= 0 {
		deleteDelay = DefaultDeleteDelay
	}
	f := &Flow{
		platform:    platform,
		settings:    settings,
		audit:       audit,
		deleteDelay: deleteDelay,
		timers:      make(map[int]*time.Timer),
	}
	f.schedule = f.scheduleTimer
	return f
}

// SetScheduler replaces the deferred-deletion scheduler, for tests.
func (f *Flow) SetScheduler(schedule func(messageID int, d time.Duration, fn func())) {
	f.schedule = schedule
}

// OnJoin handles one membership update. Non-join transitions (promotions,
// unmutes) and out-of-scope chats are ignored.
func (f *Flow) OnJoin(j *moddomain.Join) {
	if !j.IsActualJoin() {
		return
	}
	snapshot := f.settings.Get()
	if snapshot == nil || !snapshot.InScope(j.ChatID) {
		return
	}

	mention := fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, j.UserID, j.FullName)
	username := "no username"
	if j.UserName != "" {
		username = "@" + j.UserName
	}

	text := snapshot.Config.WelcomeText
	if text == "" || text == settingsdomain.Unset {
		text = "Welcome, " + settingsdomain.MentionPlaceholder + "!"
	}
	text = strings.ReplaceAll(text, settingsdomain.MentionPlaceholder, mention)

	messageID, err := f.platform.Send(j.ChatID, text, snapshot.Config.Button())
	if err != nil {
		log.Printf("Error sending welcome to %s: %v", j.ChatID, err)
		if f.audit != nil {
			f.audit.Log(j.ChatID, fmt.Sprintf("❌ Welcome error: %v", err))
		}
		return
	}

	if f.audit != nil {
		f.audit.Log(j.ChatID, fmt.Sprintf("👋 New member: %s (%s)", mention, username))
	}

	f.scheduleDelete(j.ChatID, messageID)
}

func (f *Flow) scheduleDelete(chatID string, messageID int) {
	f.schedule(messageID, f.deleteDelay, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered in welcome delete: %v", r)
			}
		}()
		// The message may already be gone; that is fine.
		if err := f.platform.Delete(chatID, messageID); err != nil {
			log.Printf("Error deleting welcome message %d in %s: %v", messageID, chatID, err)
		}
	})
}

func (f *Flow) scheduleTimer(messageID int, d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timers[messageID] = time.AfterFunc(d, func() {
		f.mu.Lock()
		delete(f.timers, messageID)
		f.mu.Unlock()
		fn()
	})
}

// Close cancels all pending deletions, for shutdown.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, timer := range f.timers {
		timer.Stop()
		delete(f.timers, id)
	}
}
