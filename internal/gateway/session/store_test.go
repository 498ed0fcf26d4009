package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wandergenie/internal/flow"
	"wandergenie/internal/llm"
	"wandergenie/internal/ui"
)

func newStore(opts Options) *Store {
	return NewStore(flow.New(llm.NewFakeClient()), opts)
}

func TestStore_CreateGetDelete(t *testing.T) {
	s := newStore(Options{})
	defer s.Close()

	sess := s.Create()
	require.NotEmpty(t, sess.ID)

	got, ok := s.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	assert.True(t, s.Delete(sess.ID))
	assert.False(t, s.Delete(sess.ID))
	_, ok = s.Get(sess.ID)
	assert.False(t, ok)
	_, ok = s.Get("  ")
	assert.False(t, ok)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := newStore(Options{})
	defer s.Close()

	a, b := s.Create(), s.Create()
	_, err := a.Chat.Send(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Len(t, a.Chat.History(), 2)
	assert.Empty(t, b.Chat.History())
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	s := newStore(Options{TTL: 40 * time.Millisecond})
	defer s.Close()

	sess := s.Create()
	ch, _ := sess.Translator.Subscribe()
	<-ch

	// Get would restart the idle clock, so poll the table size instead.
	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := s.Get(sess.ID)
	require.False(t, ok)

	// Eviction closes the translator and its subscriptions.
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	require.ErrorIs(t, sess.Translator.StartRecording(), ui.ErrClosed)
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := newStore(Options{MaxSessions: 2})
	defer s.Close()

	first := s.Create()
	second := s.Create()
	_, ok := s.Get(first.ID)
	require.True(t, ok)
	s.Create()

	_, ok = s.Get(second.ID)
	assert.False(t, ok)
	_, ok = s.Get(first.ID)
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStore_DeleteClosesTranslator(t *testing.T) {
	s := newStore(Options{})
	sess := s.Create()
	require.True(t, s.Delete(sess.ID))
	require.ErrorIs(t, sess.Translator.StartRecording(), ui.ErrClosed)
}
