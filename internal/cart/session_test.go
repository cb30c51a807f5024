package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bistro-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	s := r.Create()
	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Delete(s.ID))
	_, err = r.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, r.Delete(s.ID), ErrSessionNotFound)
}

func TestSession_DoPropagatesError(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	s := r.Create()

	boom := errors.New("boom")
	err := s.Do(func(a *Aggregator) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestSession_ConcurrentAddsAreSerialized(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	s := r.Create()
	wings := domain.CatalogItem{ID: uuid.New(), Name: "Chicken Wings"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(func(a *Aggregator) error {
				a.AddItem(wings)
				return nil
			})
		}()
	}
	wg.Wait()

	_ = s.Do(func(a *Aggregator) error {
		line, ok := a.Line(wings.ID)
		require.True(t, ok)
		assert.Equal(t, 50, line.Quantity)
		return nil
	})
}

func TestRegistry_SweepDropsIdleSessions(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	now := time.Now()
	r.now = func() time.Time { return now }

	stale := r.Create()
	fresh := r.Create()

	now = now.Add(time.Hour)
	_ = fresh.Do(func(a *Aggregator) error { return nil })

	dropped := r.Sweep(time.Hour - time.Minute)
	assert.Equal(t, 1, dropped)

	_, err := r.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestRegistry_SessionsShareAddListener(t *testing.T) {
	var mu sync.Mutex
	opened := 0
	r := NewRegistry(zap.NewNop(), WithAddListener(func(domain.OrderLine) {
		mu.Lock()
		opened++
		mu.Unlock()
	}))

	for i := 0; i < 3; i++ {
		s := r.Create()
		_ = s.Do(func(a *Aggregator) error {
			a.AddItem(domain.CatalogItem{ID: uuid.New()})
			return nil
		})
	}
	assert.Equal(t, 3, opened)
}

func TestRegistry_RunReaperStopsOnCancel(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.RunReaper(ctx, 5*time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after cancel")
	}
}

func TestRegistry_SweepDoesNotWaitOnBusySession(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	busy := r.Create()
	other := r.Create()

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = busy.Do(func(a *Aggregator) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	swept := make(chan int)
	go func() { swept <- r.Sweep(time.Hour) }()

	select {
	case n := <-swept:
		assert.Zero(t, n)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Sweep blocked on a session held by Do")
	}

	got := make(chan error)
	go func() {
		_, err := r.Get(other.ID)
		got <- err
	}()

	select {
	case err := <-got:
		assert.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Get blocked while another session was busy")
	}
}

func TestRegistry_SweepKeepsSessionTouchedByLongDo(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	now := time.Now()
	r.now = func() time.Time { return now }

	s := r.Create()
	_ = s.Do(func(a *Aggregator) error {
		now = now.Add(2 * time.Hour)
		return nil
	})

	assert.Zero(t, r.Sweep(time.Hour))
	_, err := r.Get(s.ID)
	assert.NoError(t, err)
}
