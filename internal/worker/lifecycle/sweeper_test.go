package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type countingCompleter struct {
	calls int64
	err   error
}

func (c *countingCompleter) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	atomic.AddInt64(&c.calls, 1)
	if c.err != nil {
		return 0, c.err
	}
	return 1, nil
}

func (c *countingCompleter) count() int64 {
	return atomic.LoadInt64(&c.calls)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSweeper_SweepsImmediatelyOnStart(t *testing.T) {
	completer := &countingCompleter{}
	sweeper := NewSweeper(completer, time.Hour, nopLogger{})

	done := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(done)
	}()

	waitFor(t, func() bool { return completer.count() == 1 })

	sweeper.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeper_TicksPeriodically(t *testing.T) {
	completer := &countingCompleter{}
	sweeper := NewSweeper(completer, 10*time.Millisecond, nopLogger{})

	go sweeper.Start(context.Background())
	defer sweeper.Stop()

	waitFor(t, func() bool { return completer.count() >= 3 })
}

func TestSweeper_SurvivesSweepErrors(t *testing.T) {
	completer := &countingCompleter{err: errors.New("db down")}
	sweeper := NewSweeper(completer, 10*time.Millisecond, nopLogger{})

	go sweeper.Start(context.Background())
	defer sweeper.Stop()

	// Ошибка одного прохода не останавливает цикл
	waitFor(t, func() bool { return completer.count() >= 3 })
}

func TestSweeper_StopsOnContextCancel(t *testing.T) {
	completer := &countingCompleter{}
	sweeper := NewSweeper(completer, time.Hour, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return completer.count() == 1 })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not react to context cancellation")
	}
}

func TestSweeper_StartIsIdempotentWhileRunning(t *testing.T) {
	completer := &countingCompleter{}
	sweeper := NewSweeper(completer, time.Hour, nopLogger{})

	go sweeper.Start(context.Background())
	waitFor(t, func() bool { return completer.count() == 1 })

	// Повторный Start на запущенном воркере возвращается сразу
	finished := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("second Start did not return immediately")
	}

	assert.Equal(t, int64(1), completer.count())
	sweeper.Stop()
}

func TestNewSweeper_DefaultsInterval(t *testing.T) {
	sweeper := NewSweeper(&countingCompleter{}, 0, nopLogger{})
	require.Equal(t, defaultSweepInterval, sweeper.interval)
}
