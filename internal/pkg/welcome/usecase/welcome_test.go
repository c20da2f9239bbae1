package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	moddomain "group_guard_bot/internal/pkg/moderation/domain"
	settingsdomain "group_guard_bot/internal/pkg/settings/domain"
	"group_guard_bot/internal/pkg/settings/repository"
	settingsusecase "group_guard_bot/internal/pkg/settings/usecase"
)

type sentCall struct {
	chatID string
	text   string
	button *settingsdomain.WelcomeButton
}

type fakePlatform struct {
	mu      sync.Mutex
	sent    []sentCall
	deleted []int

	sendErr   error
	deleteErr error
}

func (f *fakePlatform) Send(chatID string, text string, button *settingsdomain.WelcomeButton) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.sent = append(f.sent, sentCall{chatID: chatID, text: text, button: button})
	return 1000 + len(f.sent), nil
}

func (f *fakePlatform) Delete(chatID string, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

// fakeScheduler captures deferred deletions and fires them on demand,
// standing in for real timers.
type fakeScheduler struct {
	delays []time.Duration
	tasks  []func()
}

func (s *fakeScheduler) schedule(messageID int, d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.tasks = append(s.tasks, fn)
}

func (s *fakeScheduler) fireAll() {
	for _, fn := range s.tasks {
		fn()
	}
	s.tasks = nil
}

const testGroup = "-1001"

func newTestFlow(t *testing.T, platform *fakePlatform) (*Flow, *fakeScheduler, repository.Store, *settingsusecase.Cache) {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, store.SetSetting(settingsdomain.KeyGroupID, testGroup))
	require.NoError(t, store.SetSetting(settingsdomain.KeyWelcomeText, "Welcome to the group, {mention}!"))

	cache := settingsusecase.NewCache(store)
	require.NoError(t, cache.Refresh())

	flow := NewFlow(platform, cache, nil, 10*time.Second)
	sched := &fakeScheduler{}
	flow.SetScheduler(sched.schedule)
	return flow, sched, store, cache
}

func join(old, new string) *moddomain.Join {
	return &moddomain.Join{
		ChatID:    testGroup,
		UserID:    7,
		UserName:  "newbie",
		FullName:  "New Member",
		OldStatus: old,
		NewStatus: new,
	}
}

func TestWelcomeOnActualJoin(t *testing.T) {
	assert := assert.New(t)

	platform := &fakePlatform{}
	flow, sched, _, _ := newTestFlow(t, platform)

	flow.OnJoin(join("left", "member"))

	if assert.Len(platform.sent, 1) {
		assert.Equal(testGroup, platform.sent[0].chatID)
		assert.Contains(platform.sent[0].text, `tg://user?id=7`)
		assert.Contains(platform.sent[0].text, "New Member")
		assert.NotContains(platform.sent[0].text, "{mention}")
		assert.Nil(platform.sent[0].button, "no button configured")
	}

	// The greeting self-deletes after the configured delay.
	if assert.Len(sched.delays, 1) {
		assert.Equal(10*time.Second, sched.delays[0])
	}
	sched.fireAll()
	assert.Equal([]int{1001}, platform.deleted)
}

func TestWelcomeIgnoresNonJoinTransitions(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		old string
		new string
	}{
		{old: "member", new: "administrator"},
		{old: "restricted", new: "restricted"},
		{old: "member", new: "member"},
		{old: "member", new: "left"},
	}

	for _, fix := range fixtures {
		platform := &fakePlatform{}
		flow, _, _, _ := newTestFlow(t, platform)
		flow.OnJoin(join(fix.old, fix.new))
		assert.Empty(platform.sent, "%s -> %s must not greet", fix.old, fix.new)
	}
}

func TestWelcomeIgnoresOutOfScopeChat(t *testing.T) {
	assert := assert.New(t)

	platform := &fakePlatform{}
	flow, _, _, _ := newTestFlow(t, platform)

	j := join("left", "member")
	j.ChatID = "-9999"
	flow.OnJoin(j)
	assert.Empty(platform.sent)
}

func TestWelcomeButtonRendering(t *testing.T) {
	assert := assert.New(t)

	platform := &fakePlatform{}
	flow, _, store, cache := newTestFlow(t, platform)

	require.NoError(t, store.SetSetting(settingsdomain.KeyWelcomeBtn, "Join Channel|https://t.me/telegram"))
	require.NoError(t, cache.Refresh())

	flow.OnJoin(join("left", "member"))
	if assert.Len(platform.sent, 1) {
		require.NotNil(t, platform.sent[0].button)
		assert.Equal("Join Channel", platform.sent[0].button.Label)
		assert.Equal("https://t.me/telegram", platform.sent[0].button.URL)
	}
}

func TestWelcomeInvalidButtonOmitted(t *testing.T) {
	assert := assert.New(t)

	platform := &fakePlatform{}
	flow, _, store, cache := newTestFlow(t, platform)

	// Stored value without the separator: send the greeting, skip the button.
	require.NoError(t, store.SetSetting(settingsdomain.KeyWelcomeBtn, "Name"))
	require.NoError(t, cache.Refresh())

	flow.OnJoin(join("left", "member"))
	if assert.Len(platform.sent, 1) {
		assert.Nil(platform.sent[0].button)
	}
}

func TestWelcomeDeleteFailureSwallowed(t *testing.T) {
	assert := assert.New(t)

	platform := &fakePlatform{deleteErr: errors.New("message to delete not found")}
	flow, sched, _, _ := newTestFlow(t, platform)

	flow.OnJoin(join("left", "member"))
	assert.NotPanics(func() { sched.fireAll() })
}

func TestWelcomeCloseCancelsPendingDeletions(t *testing.T) {
	assert := assert.New(t)

	platform := &fakePlatform{}
	flow, _, _, _ := newTestFlow(t, platform)
	// Real timers with a delay far beyond the test's lifetime.
	flow.deleteDelay = time.Hour
	flow.schedule = flow.scheduleTimer

	flow.OnJoin(join("left", "member"))

	flow.mu.Lock()
	pending := len(flow.timers)
	flow.mu.Unlock()
	assert.Equal(1, pending)

	flow.Close()

	flow.mu.Lock()
	pending = len(flow.timers)
	flow.mu.Unlock()
	assert.Equal(0, pending)
	assert.Empty(platform.deleted, "cancelled deletion never fires")
}

func TestWelcomeSendFailureSwallowed(t *testing.T) {
	assert := assert.New(t)

	platform := &fakePlatform{sendErr: errors.New("forbidden: bot was kicked")}
	flow, sched, _, _ := newTestFlow(t, platform)

	assert.NotPanics(func() { flow.OnJoin(join("left", "member")) })
	assert.Empty(sched.tasks, "nothing to delete when the send failed")
}
