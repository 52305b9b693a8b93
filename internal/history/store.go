// Package history keeps per-user in-memory sessions: mode flags plus a
// bounded conversation log. Nothing survives a restart.
package history

import "sync"

// Role tags one conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in conversation history.
type Turn struct {
	Role    Role
	Content string
}

// Session is one user's state. WebEnabled and TorEnabled are mutually
// exclusive: enabling one disables the other.
type Session struct {
	WebEnabled bool
	TorEnabled bool
	Turns      []Turn
}

// Store owns every session. All mutation goes through its accessors
// under one lock, which also serializes concurrent messages from the
// same user: append-then-trim is atomic.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	maxTurns int
}

func NewStore(maxTurns int) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		maxTurns: maxTurns,
	}
}

// Get returns a snapshot of the user's session, materializing a default
// one on first access. The returned value is a copy; mutating it does
// not affect the store.
func (s *Store) Get(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(userID)

	snapshot := Session{
		WebEnabled: sess.WebEnabled,
		TorEnabled: sess.TorEnabled,
		Turns:      make([]Turn, len(sess.Turns)),
	}
	copy(snapshot.Turns, sess.Turns)

	return snapshot
}

// AppendExchange records one completed exchange and trims the log to
// the most recent maxTurns turns.
func (s *Store) AppendExchange(userID int64, userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(userID)
	sess.Turns = append(sess.Turns,
		Turn{Role: RoleUser, Content: userText},
		Turn{Role: RoleAssistant, Content: assistantText},
	)

	if overflow := len(sess.Turns) - s.maxTurns; overflow > 0 {
		sess.Turns = append([]Turn(nil), sess.Turns[overflow:]...)
	}
}

// Clear drops the user's conversation log but keeps mode flags.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session(userID).Turns = nil
}

// SetWeb toggles clearnet web access. Enabling it disables Tor.
func (s *Store) SetWeb(userID int64, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(userID)
	sess.WebEnabled = on

	if on {
		sess.TorEnabled = false
	}
}

// SetTor toggles Tor web access. Enabling it disables clearnet mode.
func (s *Store) SetTor(userID int64, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(userID)
	sess.TorEnabled = on

	if on {
		sess.WebEnabled = false
	}
}

// session returns the live session, creating it if absent. Callers must
// hold the lock.
func (s *Store) session(userID int64) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{}
		s.sessions[userID] = sess
	}

	return sess
}
