package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbridge/internal/service"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache() (*ProjectCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(DefaultTTL, WithClock(clock.Now)), clock
}

var sample = []service.Project{{ID: "1", Name: "Work"}, {ID: "2", Name: "work stuff"}}

func TestProjectCache_EmptyIsMiss(t *testing.T) {
	c, _ := newTestCache()
	_, ok := c.Get()
	assert.False(t, ok)
}

func TestProjectCache_SetThenGet(t *testing.T) {
	c, _ := newTestCache()
	c.Set(sample)

	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, sample, got)
}

func TestProjectCache_FreshJustBeforeTTL(t *testing.T) {
	c, clock := newTestCache()
	c.Set(sample)
	clock.Advance(59999 * time.Millisecond)

	_, ok := c.Get()
	assert.True(t, ok)
}

func TestProjectCache_StaleAfterTTL(t *testing.T) {
	c, clock := newTestCache()
	c.Set(sample)
	clock.Advance(60000 * time.Millisecond)

	got, ok := c.Get()
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestProjectCache_ClearBeforeTTL(t *testing.T) {
	c, clock := newTestCache()
	c.Set(sample)
	clock.Advance(time.Second)
	c.Clear()

	_, ok := c.Get()
	assert.False(t, ok)
}

func TestProjectCache_SetNilClears(t *testing.T) {
	c, _ := newTestCache()
	c.Set(sample)
	c.Set(nil)

	_, ok := c.Get()
	assert.False(t, ok)
}

func TestProjectCache_LastSetWins(t *testing.T) {
	c, _ := newTestCache()
	c.Set(sample)
	c.Set(sample[:1])

	got, ok := c.Get()
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestNew_DefaultTTL(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}

type countingLister struct {
	calls    int
	projects []service.Project
	err      error
}

func (l *countingLister) ListProjects(ctx context.Context) ([]service.Project, error) {
	l.calls++
	return l.projects, l.err
}

func TestLister_CachesUntilCleared(t *testing.T) {
	c, _ := newTestCache()
	backend := &countingLister{projects: sample}
	lister := NewLister(backend, c, nil)

	for i := 0; i < 3; i++ {
		got, err := lister.ListProjects(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sample, got)
	}
	assert.Equal(t, 1, backend.calls)

	c.Clear()
	_, err := lister.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
}

func TestLister_RefetchesAfterTTL(t *testing.T) {
	c, clock := newTestCache()
	backend := &countingLister{projects: sample}
	lister := NewLister(backend, c, nil)

	_, _ = lister.ListProjects(context.Background())
	clock.Advance(DefaultTTL)
	_, _ = lister.ListProjects(context.Background())

	assert.Equal(t, 2, backend.calls)
}

func TestLister_ErrorNotCached(t *testing.T) {
	c, _ := newTestCache()
	backend := &countingLister{err: errors.New("boom")}
	lister := NewLister(backend, c, nil)

	_, err := lister.ListProjects(context.Background())
	require.Error(t, err)
	_, ok := c.Get()
	assert.False(t, ok)
}

func TestLister_EmptyListingIsCached(t *testing.T) {
	c, _ := newTestCache()
	backend := &countingLister{}
	lister := NewLister(backend, c, nil)

	got, err := lister.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	_, ok := c.Get()
	assert.True(t, ok)
}
