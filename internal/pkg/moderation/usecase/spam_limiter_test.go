package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"group_guard_bot/internal/pkg/moderation/domain"
)

func TestSpamLimiterMinGap(t *testing.T) {
	assert := assert.New(t)

	l := NewSpamLimiter(60*time.Second, 2*time.Second, 10)
	now := time.Unix(1700000000, 0)

	assert.Equal(domain.VerdictOK, l.Classify(1, now))
	// Faster than the minimum gap is always spam, count notwithstanding.
	assert.Equal(domain.VerdictSpam, l.Classify(1, now.Add(500*time.Millisecond)))
	assert.Equal(domain.VerdictSpam, l.Classify(1, now.Add(time.Second)))
	// Once the gap is respected again, the user is fine.
	assert.Equal(domain.VerdictOK, l.Classify(1, now.Add(3*time.Second)))
}

func TestSpamLimiterWindowQuota(t *testing.T) {
	assert := assert.New(t)

	l := NewSpamLimiter(60*time.Second, 2*time.Second, 10)
	now := time.Unix(1700000000, 0)

	for i := 0; i < 10; i++ {
		verdict := l.Classify(7, now.Add(time.Duration(i)*3*time.Second))
		assert.Equal(domain.VerdictOK, verdict, "message %d within quota", i+1)
	}
	assert.Equal(domain.VerdictSpam, l.Classify(7, now.Add(33*time.Second)),
		"11th message in the window is spam")
}

func TestSpamLimiterWindowReset(t *testing.T) {
	assert := assert.New(t)

	l := NewSpamLimiter(60*time.Second, 2*time.Second, 3)
	now := time.Unix(1700000000, 0)

	for i := 0; i < 3; i++ {
		assert.Equal(domain.VerdictOK, l.Classify(9, now.Add(time.Duration(i)*5*time.Second)))
	}
	assert.Equal(domain.VerdictSpam, l.Classify(9, now.Add(15*time.Second)))

	// A minute later the window starts over.
	later := now.Add(90 * time.Second)
	assert.Equal(domain.VerdictOK, l.Classify(9, later))
}

func TestSpamLimiterReset(t *testing.T) {
	assert := assert.New(t)

	l := NewSpamLimiter(60*time.Second, 2*time.Second, 1)
	now := time.Unix(1700000000, 0)

	assert.Equal(domain.VerdictOK, l.Classify(5, now))
	assert.Equal(domain.VerdictSpam, l.Classify(5, now.Add(5*time.Second)))

	l.Reset(5)
	assert.Equal(domain.VerdictOK, l.Classify(5, now.Add(10*time.Second)))
}

func TestSpamLimiterUsersIndependent(t *testing.T) {
	assert := assert.New(t)

	l := NewSpamLimiter(60*time.Second, 2*time.Second, 10)
	now := time.Unix(1700000000, 0)

	assert.Equal(domain.VerdictOK, l.Classify(1, now))
	assert.Equal(domain.VerdictSpam, l.Classify(1, now.Add(time.Second)))
	// A different user at the same instant is unaffected.
	assert.Equal(domain.VerdictOK, l.Classify(2, now.Add(time.Second)))
}
