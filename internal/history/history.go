// Package history provides SQLite-based persistence for chat messages.
// The database is opened lazily and created on first use.
// If opening the DB or executing queries fails, the store falls back to in-memory storage.
package history

import (
	"database/sql"
	"errors"
	"slices"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/priyanshu1677/agentic-ai/internal/logger"
)

var errMemoryOnly = errors.New("no history path configured")

// Store keeps the messages of every session.
type Store struct {
	path string

	mu       sync.Mutex
	messages []Message // in-memory fallback
	nextID   int64

	dbOnce  sync.Once
	db      *sql.DB
	initErr error
}

// New returns a store backed by the SQLite file at path. An empty path keeps
// messages in memory only.
func New(path string) *Store {
	return &Store{path: path}
}

// initDB lazily opens the SQLite database and creates the messages table if it doesn't exist.
func (s *Store) initDB() {
	if s.path == "" {
		s.initErr = errMemoryOnly
		return
	}
	db, err := sql.Open("sqlite", "file:"+s.path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		s.initErr = err
		logger.L.Warn("sqlite open failed; using in-memory history", "error", err)
		return
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT,
        role TEXT,
        content TEXT,
        outcome TEXT,
        created_at DATETIME
    );`); err != nil {
		s.initErr = err
		_ = db.Close()
		logger.L.Warn("sqlite table creation failed; using in-memory history", "error", err)
		return
	}
	s.db = db
	logger.L.Debug("sqlite history DB initialized", "path", s.path)
}

func (s *Store) ready() bool {
	s.dbOnce.Do(s.initDB)
	return s.initErr == nil && s.db != nil
}

// Save persists a message to the SQLite database when available and keeps an
// in-memory copy when it is not.
func (s *Store) Save(msg Message) {
	if s.ready() {
		_, err := s.db.Exec(`INSERT INTO messages (session_id, role, content, outcome, created_at) VALUES (?,?,?,?,?);`,
			msg.SessionID, msg.Role, msg.Content, msg.Outcome, msg.CreatedAt.UTC())
		if err == nil {
			return
		}
		logger.L.Error("failed to store message in sqlite; falling back to memory", "error", err)
	}

	s.mu.Lock()
	s.nextID++
	msg.ID = s.nextID
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
}

// List returns all messages of a session in chronological order. Rows that
// fell back to memory are merged with the database rows by CreatedAt.
func (s *Store) List(sessionID string) []Message {
	var out []Message
	if s.ready() {
		rows, err := s.db.Query(`SELECT id, session_id, role, content, outcome, created_at FROM messages WHERE session_id = ? ORDER BY id ASC;`, sessionID)
		if err == nil {
			defer rows.Close()
			for rows.Next() {
				var m Message
				if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.Outcome, &m.CreatedAt); err == nil {
					out = append(out, m)
				}
			}
		} else {
			logger.L.Warn("sqlite query failed; reading in-memory history", "error", err)
		}
	}

	s.mu.Lock()
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Message) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
