package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// tokenKey is the fixed name the auth token is persisted under.
const tokenKey = "auth_token"

// TokenStore persists the auth token across process restarts. Token returns
// the current value without touching storage, so it also serves as the API
// client's bearer-token provider.
type TokenStore interface {
	Token() string
	Save(token string) error
	Clear() error
}

// Credential is a persisted key/value pair in the local state database.
type Credential struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// SQLiteTokenStore keeps the token in an embedded sqlite database, the CLI's
// replacement for the browser client's localStorage.
type SQLiteTokenStore struct {
	db *gorm.DB

	mu    sync.RWMutex
	token string
}

// OpenSQLiteTokenStore opens (creating if needed) the state database at path
// and loads any previously saved token.
func OpenSQLiteTokenStore(path string) (*SQLiteTokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if err := db.AutoMigrate(&Credential{}); err != nil {
		return nil, fmt.Errorf("migrate state database: %w", err)
	}

	s := &SQLiteTokenStore{db: db}

	var cred Credential
	if err := db.First(&cred, "key = ?", tokenKey).Error; err == nil {
		s.token = cred.Value
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("load persisted token: %w", err)
	}

	return s, nil
}

// Token returns the cached token, or "" when logged out.
func (s *SQLiteTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Save persists the token and updates the cache.
func (s *SQLiteTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred := Credential{Key: tokenKey, Value: token}
	if err := s.db.Save(&cred).Error; err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.token = token
	return nil
}

// Clear removes the persisted token.
func (s *SQLiteTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Delete(&Credential{}, "key = ?", tokenKey).Error; err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.token = ""
	return nil
}

// MemoryTokenStore is a TokenStore that forgets everything on process exit.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Token returns the current token.
func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Save replaces the current token.
func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the current token.
func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
