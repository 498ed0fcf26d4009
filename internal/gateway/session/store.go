// Package session owns the per-visitor view state. A session lives until it
// is deleted, pushed out by newer sessions, or left idle past its TTL.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"wandergenie/internal/ui"
)

const (
	DefaultMaxSessions = 1024
	DefaultTTL         = 30 * time.Minute
)

// Flows is everything the views of one session call into.
type Flows interface {
	ui.ItineraryPlanner
	ui.HighlightsResearcher
	ui.Replier
	ui.Interpreter
}

// Session groups the views of one visitor.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Itinerary  *ui.ItineraryView
	Explore    *ui.ExploreView
	Chat       *ui.ChatView
	Translator *ui.TranslatorView
	Documents  *ui.DocumentsView
}

type Options struct {
	MaxSessions     int
	TTL             time.Duration
	ErrorResetDelay time.Duration
	Logger          logrus.FieldLogger
}

// Store is a size-capped, idle-expiring session table. It is thread-safe.
type Store struct {
	flows      Flows
	resetDelay time.Duration
	log        logrus.FieldLogger
	lru        *expirable.LRU[string, *Session]
}

func NewStore(flows Flows, opts Options) *Store {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	s := &Store{
		flows:      flows,
		resetDelay: opts.ErrorResetDelay,
		log:        opts.Logger,
	}
	s.lru = expirable.NewLRU[string, *Session](opts.MaxSessions, s.onEvict, opts.TTL)
	return s
}

// onEvict runs under the LRU lock; it must not call back into the store.
func (s *Store) onEvict(id string, sess *Session) {
	sess.Translator.Close()
	s.log.WithField("session", id).Debug("session closed")
}

// Create starts a fresh session with empty views.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Itinerary:  ui.NewItineraryView(s.flows),
		Explore:    ui.NewExploreView(s.flows),
		Chat:       ui.NewChatView(s.flows),
		Translator: ui.NewTranslatorView(s.flows, s.resetDelay),
		Documents:  ui.NewDocumentsView(),
	}
	if s.lru.Add(sess.ID, sess) {
		s.log.Debug("session table full; evicted least recently used")
	}
	s.log.WithField("session", sess.ID).Info("session created")
	return sess
}

// Get returns a live session and restarts its idle clock.
func (s *Store) Get(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	sess, ok := s.lru.Get(id)
	if !ok {
		return nil, false
	}
	s.lru.Add(id, sess)
	return sess, true
}

// Delete ends a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	return s.lru.Remove(strings.TrimSpace(id))
}

func (s *Store) Len() int { return s.lru.Len() }

// Close ends every session.
func (s *Store) Close() { s.lru.Purge() }
