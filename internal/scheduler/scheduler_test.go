package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingValidator struct {
	calls atomic.Int32
	err   error
}

func (c *countingValidator) AutoValidate(_ context.Context, dryRun bool) (int, error) {
	c.calls.Add(1)
	return 2, c.err
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := New(&countingValidator{}, "not a cron line")

	assert.Error(t, s.Start())
}

func TestStart_DefaultSchedule(t *testing.T) {
	s := New(&countingValidator{}, "")
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	next := s.Next()
	require.False(t, next.IsZero())
	assert.Zero(t, next.Minute())
	assert.Zero(t, next.Second())
}

func TestScheduledRun(t *testing.T) {
	v := &countingValidator{}
	s := New(v, "* * * * * *")
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return v.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestRunNow(t *testing.T) {
	v := &countingValidator{err: errors.New("db down")}
	s := New(v, "")

	s.RunNow(context.Background())

	assert.EqualValues(t, 1, v.calls.Load())
	assert.True(t, s.Next().IsZero(), "not started")
}
