package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWelcomeButton(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		raw   string
		label string
		url   string
		ok    bool
	}{
		{raw: "", ok: false},
		{raw: "Name", ok: false},
		{raw: "Name|", ok: false},
		{raw: "Name|ftp://example.com", ok: false},
		{raw: "|https://example.com", ok: false},
		{raw: "Join Channel|https://t.me/telegram", label: "Join Channel", url: "https://t.me/telegram", ok: true},
		{raw: " Join | http://example.com ", label: "Join", url: "http://example.com", ok: true},
	}

	for _, fix := range fixtures {
		btn := ParseWelcomeButton(fix.raw)
		if !fix.ok {
			assert.Nil(btn, "raw=%q", fix.raw)
			continue
		}
		if assert.NotNil(btn, "raw=%q", fix.raw) {
			assert.Equal(fix.label, btn.Label)
			assert.Equal(fix.url, btn.URL)
		}
	}
}

func TestGroupConfigButton(t *testing.T) {
	assert := assert.New(t)

	cfg := &GroupConfig{WelcomeBtnRaw: Unset}
	assert.Nil(cfg.Button())

	cfg.WelcomeBtnRaw = "Name"
	assert.Nil(cfg.Button())

	cfg.WelcomeBtnRaw = "Name|https://example.com"
	assert.NotNil(cfg.Button())
}

func TestFilterSetFirstMatch(t *testing.T) {
	assert := assert.New(t)

	fs := NewFilterSet([]string{"Spam", "scam", "SCAM", "  "})
	assert.Equal([]string{"scam", "spam"}, fs.Words())
	assert.Equal(2, fs.Len())

	word, ok := fs.FirstMatch("this is a SCAM offer")
	assert.True(ok)
	assert.Equal("scam", word)

	// Substring containment, not word boundaries.
	word, ok = fs.FirstMatch("that spammer again")
	assert.True(ok)
	assert.Equal("spam", word)

	_, ok = fs.FirstMatch("perfectly fine message")
	assert.False(ok)

	_, ok = fs.FirstMatch("")
	assert.False(ok)
}

func TestFilterSetFirstMatchIdempotent(t *testing.T) {
	assert := assert.New(t)

	fs := NewFilterSet([]string{"alpha", "beta"})
	for i := 0; i < 5; i++ {
		word, ok := fs.FirstMatch("beta then alpha")
		assert.True(ok)
		assert.Equal("alpha", word)
	}
}

func TestSnapshotScope(t *testing.T) {
	assert := assert.New(t)

	s := &Snapshot{
		Config:    GroupConfig{TargetGroupID: "-100"},
		Filters:   NewFilterSet(nil),
		GroupLogs: map[string]string{"-200": "-300", "-400": Unset},
	}

	assert.True(s.InScope("-100"), "target group is in scope")
	assert.True(s.InScope("-200"), "group with a log mapping is in scope")
	assert.False(s.InScope("-400"), "unset log mapping does not add scope")
	assert.False(s.InScope("-500"))

	assert.Equal("-300", s.LogChatFor("-200"))
	assert.Equal("", s.LogChatFor("-100"))
	assert.Equal("", s.LogChatFor("-400"))

	unset := &Snapshot{Config: GroupConfig{TargetGroupID: Unset}, Filters: NewFilterSet(nil)}
	assert.False(unset.InScope("-100"), "unset target group means ignore everything")
}
