package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gamecafe-pos/internal/models"
)

const (
	usersFile          = "users.json"
	gamesFile          = "games.json"
	sessionsFile       = "sessions.json"
	invoiceRecordsFile = "invoice_records.json"
	paymentsFile       = "payments.json"
)

// FileStore persists every collection as a JSON document under one
// directory. Good enough for a single POS counter; one mutex guards all
// read-modify-write cycles.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Games() ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var games []models.Game
	ok, err := s.load(gamesFile, &games)
	if err != nil {
		return nil, err
	}
	if !ok || games == nil {
		games = DefaultGames()
		if err := s.save(gamesFile, games); err != nil {
			return nil, err
		}
	}
	return games, nil
}

func (s *FileStore) SaveGames(games []models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(gamesFile, games)
}

func (s *FileStore) User(mobile string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	user, ok := users[mobile]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *FileStore) SaveUser(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	users[user.Mobile] = user
	return s.save(usersFile, users)
}

func (s *FileStore) Sessions() (map[string]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSessions()
}

func (s *FileStore) SaveSession(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadSessions()
	if err != nil {
		return err
	}
	sessions[sess.SessionID] = sess
	return s.save(sessionsFile, sessions)
}

func (s *FileStore) DeleteSession(sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadSessions()
	if err != nil {
		return nil, err
	}
	sess, ok := sessions[sessionID]
	if !ok {
		return nil, nil
	}
	delete(sessions, sessionID)
	if err := s.save(sessionsFile, sessions); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *FileStore) AppendInvoiceRecord(rec models.InvoiceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.InvoiceRecord
	if _, err := s.load(invoiceRecordsFile, &records); err != nil {
		return err
	}
	records = append(records, rec)
	return s.save(invoiceRecordsFile, records)
}

func (s *FileStore) AppendPayment(p models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payments []models.Payment
	if _, err := s.load(paymentsFile, &payments); err != nil {
		return err
	}
	payments = append(payments, p)
	return s.save(paymentsFile, payments)
}

func (s *FileStore) loadUsers() (map[string]models.User, error) {
	users := make(map[string]models.User)
	if _, err := s.load(usersFile, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = make(map[string]models.User)
	}
	return users, nil
}

func (s *FileStore) loadSessions() (map[string]models.Session, error) {
	sessions := make(map[string]models.Session)
	if _, err := s.load(sessionsFile, &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = make(map[string]models.Session)
	}
	return sessions, nil
}

// load reads a JSON document into out, reporting false when the file
// does not exist yet.
func (s *FileStore) load(name string, out interface{}) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return true, nil
}

func (s *FileStore) save(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
