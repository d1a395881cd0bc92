package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestLedger_DailyCap(t *testing.T) {
	l := NewLedger(0)
	assert.Equal(t, DefaultDailyLimit, l.Limit())

	for i := 0; i < 3; i++ {
		assert.True(t, l.TryConsume("u1", today), "call %d", i+1)
	}
	assert.False(t, l.TryConsume("u1", today))
	assert.False(t, l.TryConsume("u1", today.Add(10*time.Hour)), "same calendar day")
	assert.Equal(t, 0, l.Remaining("u1", today))

	tomorrow := today.AddDate(0, 0, 1)
	assert.True(t, l.TryConsume("u1", tomorrow))
	assert.Equal(t, 2, l.Remaining("u1", tomorrow))
}

func TestLedger_UsersIndependent(t *testing.T) {
	l := NewLedger(1)

	assert.True(t, l.TryConsume("a", today))
	assert.False(t, l.TryConsume("a", today))
	assert.True(t, l.TryConsume("b", today))
	assert.Equal(t, 1, l.Remaining("c", today))
}

func TestLedger_Concurrent(t *testing.T) {
	l := NewLedger(3)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryConsume("same-user", today) {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), granted.Load())
	assert.Equal(t, 0, l.Remaining("same-user", today))
}

func TestLedger_Refund(t *testing.T) {
	l := NewLedger(2)

	assert.True(t, l.TryConsume("u1", today))
	assert.True(t, l.TryConsume("u1", today))
	assert.False(t, l.TryConsume("u1", today))

	l.Refund("u1", today)
	assert.Equal(t, 1, l.Remaining("u1", today))
	assert.True(t, l.TryConsume("u1", today))

	l.Refund("u2", today)
	assert.Equal(t, 2, l.Remaining("u2", today), "refund without a permit is a no-op")
}
