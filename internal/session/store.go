// Package session persists the authenticated user between invocations,
// the client-side equivalent of the browser's local storage. The store is
// handed to commands explicitly; there is no ambient global.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskdeck/taskdeck/internal/models"
)

// ErrNoSession means nobody is logged in.
var ErrNoSession = errors.New("no active session")

// Record is the persisted session row. A single row (id 1) holds the
// current user; logging in overwrites it.
type Record struct {
	ID          uint `gorm:"primarykey"`
	UserID      int64
	Username    string
	Email       string
	FullName    string
	Role        string
	Active      bool
	AvatarColor string
	JoinedAt    time.Time
	Token       string
	SavedAt     time.Time
}

// Snapshot caches the last successful fetch for a screen so it can paint
// stale data while the fresh join is in flight.
type Snapshot struct {
	Key     string `gorm:"primarykey"`
	Data    []byte
	SavedAt time.Time
}

// Store wraps the local sqlite database.
type Store struct {
	db *gorm.DB
}

// Open connects to the session database and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := db.AutoMigrate(&Record{}, &Snapshot{}); err != nil {
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save stores user as the current session, replacing any previous one.
func (s *Store) Save(user models.User, token string) error {
	rec := Record{
		ID:          1,
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        string(user.Role),
		Active:      user.Active,
		AvatarColor: user.AvatarColor,
		JoinedAt:    user.CreatedAt,
		Token:       token,
		SavedAt:     time.Now(),
	}
	return s.db.Save(&rec).Error
}

// Load returns the current user and API token, or ErrNoSession.
func (s *Store) Load() (*models.User, string, error) {
	var rec Record
	err := s.db.First(&rec, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrNoSession
	}
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		ID:          rec.UserID,
		Username:    rec.Username,
		Email:       rec.Email,
		FullName:    rec.FullName,
		Role:        models.Role(rec.Role),
		Active:      rec.Active,
		AvatarColor: rec.AvatarColor,
		CreatedAt:   rec.JoinedAt,
	}
	return &user, rec.Token, nil
}

// Clear logs out: the session row and any cached snapshots are removed.
func (s *Store) Clear() error {
	if err := s.db.Delete(&Record{}, 1).Error; err != nil {
		return err
	}
	return s.db.Where("1 = 1").Delete(&Snapshot{}).Error
}

// SaveSnapshot caches v (JSON-encoded) under key.
func (s *Store) SaveSnapshot(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", key, err)
	}
	snap := Snapshot{Key: key, Data: data, SavedAt: time.Now()}
	return s.db.Save(&snap).Error
}

// LoadSnapshot decodes the cached value under key into v and reports when
// it was saved. Returns gorm.ErrRecordNotFound if nothing is cached.
func (s *Store) LoadSnapshot(key string, v any) (time.Time, error) {
	var snap Snapshot
	if err := s.db.First(&snap, "key = ?", key).Error; err != nil {
		return time.Time{}, err
	}
	if err := json.Unmarshal(snap.Data, v); err != nil {
		return time.Time{}, fmt.Errorf("decode snapshot %q: %w", key, err)
	}
	return snap.SavedAt, nil
}
