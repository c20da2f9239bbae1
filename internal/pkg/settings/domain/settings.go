package domain

import (
	"sort"
	"strings"
)

// Settings keys stored in the key-value settings table.
const (
	KeyGroupID     = "group_id"
	KeyWelcomeText = "welcome_text"
	KeyWelcomeBtn  = "welcome_btn"

	// Unset marks a settings value that has never been configured.
	Unset = "0"
)

// MentionPlaceholder is substituted with the joining user's mention
// when the welcome text is rendered.
const MentionPlaceholder = "{mention}"

// WelcomeButton is a single inline URL button attached to the welcome message.
type WelcomeButton struct {
	Label string
	URL   string
}

// ParseWelcomeButton parses the stored "Label|URL" form. A malformed value
// (missing separator, empty label, URL without an http scheme) yields nil:
// the welcome message is sent without a button rather than failing.
func ParseWelcomeButton(raw string) *WelcomeButton {
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 {
		return nil
	}
	label := strings.TrimSpace(parts[0])
	url := strings.TrimSpace(parts[1])
	if label == "" {
		return nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil
	}
	return &WelcomeButton{Label: label, URL: url}
}

// GroupConfig is one deployment's configuration: the single target group,
// the welcome message, and the raw button value as stored.
type GroupConfig struct {
	TargetGroupID string
	WelcomeText   string
	WelcomeBtnRaw string
}

// Button returns the parsed welcome button, or nil when none is configured
// or the stored value is malformed.
func (c *GroupConfig) Button() *WelcomeButton {
	if c.WelcomeBtnRaw == "" || c.WelcomeBtnRaw == Unset {
		return nil
	}
	return ParseWelcomeButton(c.WelcomeBtnRaw)
}

// FilterSet holds the banned words, lower-cased and unique. Matching is
// substring containment on the lower-cased message text, so a banned word
// inside a longer word still triggers.
type FilterSet struct {
	words []string
}

// NewFilterSet lower-cases, de-duplicates and sorts the given words.
// The sorted order makes FirstMatch deterministic across runs.
func NewFilterSet(words []string) *FilterSet {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Strings(out)
	return &FilterSet{words: out}
}

// Words returns the banned words in sorted order.
func (f *FilterSet) Words() []string {
	return f.words
}

func (f *FilterSet) Len() int {
	return len(f.words)
}

// FirstMatch returns the first banned word contained in text, case-folded.
// Empty text never matches.
func (f *FilterSet) FirstMatch(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, w := range f.words {
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}

// Snapshot is the full cached view of a deployment's settings: the group
// config, the banned-word set and the group→log-chat mapping. It is replaced
// as a whole on refresh, never mutated in place.
type Snapshot struct {
	Config    GroupConfig
	Filters   *FilterSet
	GroupLogs map[string]string
}

// LogChatFor returns the log chat configured for a group, or "" when logging
// is disabled for it (no mapping, or the mapping is unset).
func (s *Snapshot) LogChatFor(groupID string) string {
	logChat, ok := s.GroupLogs[groupID]
	if !ok || logChat == "" || logChat == Unset {
		return ""
	}
	return logChat
}

// InScope reports whether the bot moderates the given chat: either the chat
// has its own log mapping, or it is the configured target group.
func (s *Snapshot) InScope(chatID string) bool {
	if s.LogChatFor(chatID) != "" {
		return true
	}
	return s.Config.TargetGroupID != "" && s.Config.TargetGroupID != Unset &&
		s.Config.TargetGroupID == chatID
}
