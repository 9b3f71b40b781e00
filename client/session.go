package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys. jwt_token holds the raw bearer token, user_data the
// JSON-encoded User record assembled by the login flow.
const (
	tokenKey = "jwt_token"
	userKey  = "user_data"
)

// Session is the persisted authentication state.
type Session struct {
	Token string
	User  *User
}

// SessionStore persists the session across client restarts. Save is
// synchronous: a nil return means the session is durably stored, so no
// delayed verify-and-repair pass is needed.
type SessionStore interface {
	Save(sess *Session) error
	Load() (*Session, error)
	Clear() error
}

// MemorySessionStore keeps the session in memory. The zero value is
// not usable; use NewMemorySessionStore.
type MemorySessionStore struct {
	mu   sync.RWMutex
	sess *Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Save stores the session.
func (m *MemorySessionStore) Save(sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = sess
	return nil
}

// Load returns the stored session, or nil when none is stored.
func (m *MemorySessionStore) Load() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess, nil
}

// Clear removes the stored session.
func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}

// FileSessionStore persists the session as a JSON file, using the
// jwt_token and user_data keys.
type FileSessionStore struct {
	mu   sync.Mutex
	path string
}

// NewFileSessionStore creates a store backed by the given file path.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Save writes the session file atomically (write to temp, then rename).
func (f *FileSessionStore) Save(sess *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	payload := map[string]string{}
	if sess != nil {
		payload[tokenKey] = sess.Token
		if sess.User != nil {
			userJSON, err := json.Marshal(sess.User)
			if err != nil {
				return fmt.Errorf("encoding user data: %w", err)
			}
			payload[userKey] = string(userJSON)
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Load reads the session file. A missing file returns (nil, nil).
func (f *FileSessionStore) Load() (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", err)
	}

	sess := &Session{Token: payload[tokenKey]}
	if userJSON, ok := payload[userKey]; ok && userJSON != "" {
		var u User
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			return nil, fmt.Errorf("decoding user data: %w", err)
		}
		sess.User = &u
	}

	if sess.Token == "" && sess.User == nil {
		return nil, nil
	}
	return sess, nil
}

// Clear removes the session file. Clearing a missing file is not an error.
func (f *FileSessionStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
