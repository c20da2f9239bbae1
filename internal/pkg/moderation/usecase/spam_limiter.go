package usecase

import (
	"sync"
	"time"

	"group_guard_bot/internal/pkg/moderation/domain"
)

const (
	DefaultSpamWindow   = 60 * time.Second
	DefaultMinGap       = 2 * time.Second
	DefaultMaxPerWindow = 10
)

type spamWindow struct {
	messageCount    int
	windowStart     time.Time
	lastMessageTime time.Time
}

// SpamLimiter is the per-user sliding-window flood detector. A message
// arriving sooner than the minimum gap after the previous one is spam
// regardless of the window quota; otherwise the per-window count decides.
type SpamLimiter struct {
	window       time.Duration
	minGap       time.Duration
	maxPerWindow int

	users map[int64]*spamWindow
	mu    sync.Mutex
}

func NewSpamLimiter(window, minGap time.Duration, maxPerWindow int) *SpamLimiter {
	if window <= 0 {
		window = DefaultSpamWindow
	}
	if minGap <= 0 {
		minGap = DefaultMinGap
	}
	if maxPerWindow <= 0 {
		maxPerWindow = DefaultMaxPerWindow
	}
	return &SpamLimiter{
		window:       window,
		minGap:       minGap,
		maxPerWindow: maxPerWindow,
		users:        make(map[int64]*spamWindow),
	}
}

// Classify records one message from the user at the given instant and
// returns the flood verdict. It never fails; unknown users start a fresh
// window.
func (l *SpamLimiter) Classify(userID int64, now time.Time) domain.SpamVerdict {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.users[userID]
	if !ok {
		l.users[userID] = &spamWindow{
			messageCount:    1,
			windowStart:     now,
			lastMessageTime: now,
		}
		return domain.VerdictOK
	}

	if now.Sub(w.windowStart) > l.window {
		w.messageCount = 0
		w.windowStart = now
	}

	// Too fast counts as flooding even with quota to spare. The count is
	// left alone so a stream of rapid-fire messages stays spam.
	if now.Sub(w.lastMessageTime) < l.minGap {
		return domain.VerdictSpam
	}

	w.messageCount++
	if w.messageCount > l.maxPerWindow {
		return domain.VerdictSpam
	}
	w.lastMessageTime = now
	return domain.VerdictOK
}

// Reset drops the user's window, exempting admins and bots from
// accumulating counts.
func (l *SpamLimiter) Reset(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.users, userID)
}
