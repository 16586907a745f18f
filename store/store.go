// Package store provides the persistent key-value storage for engine state.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	defaults "github.com/brainrotbuster/buster-go/config"

	_ "github.com/mattn/go-sqlite3"                      // SQLite driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
)

var GlobalInstance Store

// GetGlobalStore returns the global store instance
func GetGlobalStore() Store {
	return GlobalInstance
}

// Store is a namespaced key-value store surviving across restarts. Absent keys
// return ok=false with a nil error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Close() error
}

// DBStore backs the Store interface with Turso or local SQLite.
type DBStore struct {
	Conn     *sql.DB
	UseTurso bool
}

// NewDBStore opens the settings database, trying Turso first and falling back
// to local SQLite.
func NewDBStore() (*DBStore, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if defaults.TursoDatabase != "" && defaults.TursoToken != "" {
		connStr := defaults.TursoDatabase + "?authToken=" + defaults.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err == nil {
			if pingErr := conn.Ping(); pingErr == nil {
				useTurso = true
			} else {
				conn.Close()
				conn = nil
			}
		}
	}

	if conn == nil {
		dbDir := filepath.Dir(defaults.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", defaults.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}

		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("SQLite database ping failed: %w", err)
		}
		useTurso = false
	}

	store := &DBStore{Conn: conn, UseTurso: useTurso}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

func (s *DBStore) migrate() error {
	_, err := s.Conn.Exec(`CREATE TABLE IF NOT EXISTS buster_kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create buster_kv table: %w", err)
	}
	return nil
}

func (s *DBStore) Get(key string) (string, bool, error) {
	var value string
	err := s.Conn.QueryRow("SELECT v FROM buster_kv WHERE k = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *DBStore) Set(key, value string) error {
	_, err := s.Conn.Exec(
		"INSERT INTO buster_kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v",
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *DBStore) Close() error {
	if s.Conn != nil {
		return s.Conn.Close()
	}
	return nil
}

// ConnectionInfo returns a string describing the storage backend
func (s *DBStore) ConnectionInfo() string {
	if s.UseTurso {
		return "Turso"
	}
	return "SQLite"
}

// MemoryStore is an in-memory Store used in tests and as the degraded-mode
// fallback when the database cannot be opened.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// GetInt reads an integer value with fallback to default on absence or
// parse failure.
func GetInt(s Store, key string, defaultValue int) int {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetString reads a string value with fallback to default.
func GetString(s Store, key, defaultValue string) string {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return defaultValue
	}
	return raw
}
