package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(threshold int, reset time.Duration) (*Breaker, *clock) {
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker(Config{FailureThreshold: threshold, ResetTimeout: reset})
	b.now = clk.now
	return b, clk
}

var errBoom = errors.New("boom")

func fail(context.Context) (string, error) { return "", errBoom }
func ok(context.Context) (string, error)   { return "ok", nil }

func TestBreaker_Defaults(t *testing.T) {
	b := NewBreaker(Config{})
	assert.Equal(t, 5, b.cfg.FailureThreshold)
	assert.Equal(t, 60*time.Second, b.cfg.ResetTimeout)
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_PassesThroughWhenClosed(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	v, err := Call(context.Background(), b, ok)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)
	ctx := context.Background()

	_, err := Call(ctx, b, fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Closed, b.State())

	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Open, b.State())

	called := false
	_, err = Call(ctx, b, func(context.Context) (string, error) {
		called = true
		return "", nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	_, _ = Call(ctx, b, ok)
	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	b, clk := newTestBreaker(1, time.Minute)
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	require.Equal(t, Open, b.State())

	clk.advance(time.Minute)
	assert.Equal(t, HalfOpen, b.State())

	_, err := Call(ctx, b, ok)
	require.NoError(t, err)
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clk := newTestBreaker(1, time.Minute)
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	clk.advance(time.Minute)

	_, err := Call(ctx, b, fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Open, b.State())

	_, err = Call(ctx, b, ok)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	clk := &clock{t: time.Now()}
	b := NewBreaker(Config{
		FailureThreshold: 1,
		ResetTimeout:     time.Second,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	b.now = clk.now
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	clk.advance(time.Second)
	_, _ = Call(ctx, b, ok)

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
