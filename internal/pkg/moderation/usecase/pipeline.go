package usecase

import (
	"fmt"
	"log"
	"time"

	"group_guard_bot/internal/pkg/moderation/domain"
)

const (
	DefaultMuteDuration = time.Hour

	// Auto-clean thresholds: albums of several photos and long videos
	// are removed, single snapshots stay.
	maxPhotosPerMessage = 2
	maxVideoDuration    = 60 * time.Second
)

// Pipeline runs every inbound group message through scope resolution, the
// spam limiter, the banned-word filter and the auto-clean check, in that
// order. The first stage that decides wins. Delete and restrict calls are
// best-effort; failures never stop event handling.
type Pipeline struct {
	platform   Platform
	settings   Settings
	spam       *SpamLimiter
	violations *ViolationTracker
	audit      *AuditLog

	adminID      int64
	muteDuration time.Duration

	now func() time.Time
}

func NewPipeline(platform Platform, settings Settings, spam *SpamLimiter, violations *ViolationTracker, adminID int64, muteDuration time.Duration) *Pipeline {
	if muteDuration <= 0 {
		muteDuration = DefaultMuteDuration
	}
	return &Pipeline{
		platform:     platform,
		settings:     settings,
		spam:         spam,
		violations:   violations,
		audit:        NewAuditLog(platform, settings),
		adminID:      adminID,
		muteDuration: muteDuration,
		now:          time.Now,
	}
}

// SetClock replaces the pipeline's clock, for tests.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Violations exposes the tracker for the background sweeper and the admin
// surface.
func (p *Pipeline) Violations() *ViolationTracker {
	return p.violations
}

// HandleMessage classifies one group message and performs the resulting
// moderation actions. It always returns a verdict, never an error.
func (p *Pipeline) HandleMessage(msg *domain.Message) domain.Action {
	snapshot := p.settings.Get()
	if snapshot == nil || !snapshot.InScope(msg.ChatID) {
		return domain.ActionNone
	}

	// Owner and bot accounts are exempt and do not accumulate flood counts.
	if msg.UserID == p.adminID || msg.IsBot {
		p.spam.Reset(msg.UserID)
		return domain.ActionNone
	}

	now := p.now()

	if p.spam.Classify(msg.UserID, now) == domain.VerdictSpam {
		p.deleteMessage(msg)
		p.audit.Log(msg.ChatID, fmt.Sprintf("🚫 SPAM %s", msg.FullName))
		return domain.ActionDelete
	}

	if word, ok := snapshot.Filters.FirstMatch(msg.Text); ok {
		return p.handleFilterHit(msg, word, now)
	}

	if shouldAutoClean(msg) {
		p.deleteMessage(msg)
		p.audit.Log(msg.ChatID, fmt.Sprintf("🗑️ CLEAN %s", msg.ContentType))
		return domain.ActionDeleteLog
	}

	return domain.ActionNone
}

func (p *Pipeline) handleFilterHit(msg *domain.Message, word string, now time.Time) domain.Action {
	p.deleteMessage(msg)

	count := p.violations.Record(msg.UserID)
	p.audit.Log(msg.ChatID, fmt.Sprintf("🚫 FILTER %s: %q (warn %d/%d)",
		msg.FullName, word, count, WarnThreshold))

	if count < WarnThreshold {
		warning := fmt.Sprintf("⚠️ %s, that word is not allowed here. Next violation mutes you.", msg.FullName)
		if _, err := p.platform.Send(msg.ChatID, warning, nil); err != nil {
			log.Printf("Error sending warning to %s: %v", msg.ChatID, err)
		}
		return domain.ActionDeleteWarn
	}

	// Already-muted users only get the delete; re-issuing the restrict for
	// every message would hammer the platform for nothing.
	if p.violations.IsMuted(msg.UserID, now) {
		return domain.ActionDelete
	}

	until := now.Add(p.muteDuration)
	if err := p.platform.Restrict(msg.ChatID, msg.UserID, until); err != nil {
		log.Printf("Error restricting user %d in %s: %v", msg.UserID, msg.ChatID, err)
	} else {
		p.violations.MarkMuted(msg.UserID, until)
	}

	notice := fmt.Sprintf("🔇 %s muted for repeated violations.", msg.FullName)
	if _, err := p.platform.Send(msg.ChatID, notice, nil); err != nil {
		log.Printf("Error sending mute notice to %s: %v", msg.ChatID, err)
	}
	return domain.ActionDeleteMute
}

func (p *Pipeline) deleteMessage(msg *domain.Message) {
	if err := p.platform.Delete(msg.ChatID, msg.MessageID); err != nil {
		log.Printf("Error deleting message %d in %s: %v", msg.MessageID, msg.ChatID, err)
	}
}

func shouldAutoClean(msg *domain.Message) bool {
	switch {
	case msg.IsService:
		return true
	case msg.IsSticker:
		return true
	case msg.PhotoCount > maxPhotosPerMessage:
		return true
	case msg.VideoDuration > maxVideoDuration:
		return true
	}
	return false
}
