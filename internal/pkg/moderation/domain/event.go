package domain

import "time"

// Message is the platform-independent view of an inbound group message,
// carrying only what the pipeline needs to decide.
type Message struct {
	ChatID    string
	MessageID int
	UserID    int64
	UserName  string
	FullName  string
	IsBot     bool

	// Text holds the message text, or the caption for media messages.
	Text string

	// Content shape, used by the auto-clean stage.
	IsService     bool
	IsSticker     bool
	PhotoCount    int
	VideoDuration time.Duration

	// ContentType is a short label for audit lines ("sticker", "video", ...).
	ContentType string
}

// Join is a membership transition event.
type Join struct {
	ChatID    string
	UserID    int64
	UserName  string
	FullName  string
	OldStatus string
	NewStatus string
}

// IsActualJoin reports whether the transition is a real entry into the group.
// Membership updates fire for promotions, unmutes and the like; only a
// non-member→member transition counts.
func (j *Join) IsActualJoin() bool {
	return j.NewStatus == "member" && j.OldStatus != "member"
}
