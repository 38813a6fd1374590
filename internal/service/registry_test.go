package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(&fakeAPI{}, "http://127.0.0.1:3000", zerolog.Nop())

	id, s := r.Open()
	require.NotEmpty(t, id)
	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, s, got)

	otherID, other := r.Open()
	assert.NotEqual(t, id, otherID)
	assert.Equal(t, 2, r.Len())

	fillInputs(s, "tower")
	handle, err := s.Generate(context.Background())
	require.NoError(t, err)
	assert.Contains(t, handle.URI, "blob:http://127.0.0.1:3000/")

	_, err = other.Blob(handle.ID)
	assert.Error(t, err, "blobs are scoped to their session")

	r.Close(id)
	_, ok = r.Get(id)
	assert.False(t, ok)
	_, err = s.Blob(handle.ID)
	assert.Error(t, err)

	r.CloseAll()
	assert.Zero(t, r.Len())
}

func TestRegistryEvictIdle(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(&fakeAPI{}, "http://127.0.0.1:3000", zerolog.Nop())
	r.now = func() time.Time { return now }

	idleID, idle := r.Open()
	activeID, _ := r.Open()

	fillInputs(idle, "tower")
	handle, err := idle.Generate(context.Background())
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, ok := r.Get(activeID)
	require.True(t, ok)

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle(30*time.Minute))

	_, ok = r.Get(idleID)
	assert.False(t, ok)
	_, ok = r.Get(activeID)
	assert.True(t, ok)

	_, err = idle.Blob(handle.ID)
	assert.Error(t, err, "evicted session releases its result")
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRunEvictor(t *testing.T) {
	r := NewRegistry(&fakeAPI{}, "http://127.0.0.1:3000", zerolog.Nop())
	r.Open()

	done := make(chan struct{})
	defer close(done)
	go r.RunEvictor(done, 5*time.Millisecond, 0)

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
}
