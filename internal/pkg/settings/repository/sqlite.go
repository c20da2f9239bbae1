package repository

import (
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"group_guard_bot/internal/pkg/settings/domain"
)

// SQLiteStore keeps everything in a single local file, for deployments
// without a Postgres instance.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA busy_timeout=10000;`); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS filters (
			word TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS group_logs (
			group_id TEXT PRIMARY KEY,
			log_chat_id TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	for _, key := range []string{domain.KeyGroupID, domain.KeyWelcomeText, domain.KeyWelcomeBtn} {
		_, err := s.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
			key, domain.Unset)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetSetting(key string) (string, error) {
	row := s.db.QueryRow(`SELECT value FROM settings WHERE key=?`, key)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return domain.Unset, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value=excluded.value
	`, key, value)
	return err
}

func (s *SQLiteStore) ListFilters() ([]string, error) {
	rows, err := s.db.Query(`SELECT word FROM filters ORDER BY word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

func (s *SQLiteStore) AddFilter(word string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO filters (word) VALUES (?)`,
		strings.ToLower(word))
	return err
}

func (s *SQLiteStore) RemoveFilter(word string) error {
	_, err := s.db.Exec(`DELETE FROM filters WHERE word=?`, strings.ToLower(word))
	return err
}

func (s *SQLiteStore) ListGroupLogs() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT group_id, log_chat_id FROM group_logs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make(map[string]string)
	for rows.Next() {
		var groupID, logChatID string
		if err := rows.Scan(&groupID, &logChatID); err != nil {
			return nil, err
		}
		logs[groupID] = logChatID
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) SetGroupLog(groupID, logChatID string) error {
	_, err := s.db.Exec(`
		INSERT INTO group_logs (group_id, log_chat_id) VALUES (?, ?)
		ON CONFLICT (group_id) DO UPDATE SET log_chat_id=excluded.log_chat_id
	`, groupID, logChatID)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
