// Package chat implements the conversational assistant: session bookkeeping,
// data gathering driven by the reasoning engine, and response generation.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxSessionTurns bounds the history kept per session. Older turns are
// dropped from the front.
const maxSessionTurns = 20

// Turn is one message in a conversation, from either side.
type Turn struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is an in-memory conversation. Sessions are not persisted.
type Session struct {
	ID    string `json:"session_id"`
	Turns []Turn `json:"turns"`
}

// SessionStore holds active sessions. Safe for concurrent use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// GetOrCreate returns the session with the given ID, creating it (with a
// fresh UUID when id is empty) if it does not exist.
func (s *SessionStore) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}

	return sess
}

// Append records a turn on a session, trimming history to the most recent
// maxSessionTurns entries.
func (s *SessionStore) Append(id, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}

	sess.Turns = append(sess.Turns, Turn{Role: role, Content: content, At: s.now()})
	if len(sess.Turns) > maxSessionTurns {
		sess.Turns = sess.Turns[len(sess.Turns)-maxSessionTurns:]
	}
}

// History returns a copy of a session's turns, oldest first.
func (s *SessionStore) History(id string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}

	return append([]Turn(nil), sess.Turns...)
}
