package repository

import (
	"database/sql"
	"strings"

	_ "github.com/lib/pq"

	"group_guard_bot/internal/pkg/settings/domain"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init() error {
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
	// Seed defaults so settings reads never miss.
	for _, key := range []string{domain.KeyGroupID, domain.KeyWelcomeText, domain.KeyWelcomeBtn} {
		_, err := s.db.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING
		`, key, domain.Unset)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) GetSetting(key string) (string, error) {
	row := s.db.QueryRow(`SELECT value FROM settings WHERE key=$1`, key)
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

func (s *PostgresStore) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value=$2
	`, key, value)
	return err
}

func (s *PostgresStore) ListFilters() ([]string, error) {
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

func (s *PostgresStore) AddFilter(word string) error {
	_, err := s.db.Exec(`
		INSERT INTO filters (word) VALUES ($1)
		ON CONFLICT (word) DO NOTHING
	`, strings.ToLower(word))
	return err
}

func (s *PostgresStore) RemoveFilter(word string) error {
	_, err := s.db.Exec(`DELETE FROM filters WHERE word=$1`, strings.ToLower(word))
	return err
}

func (s *PostgresStore) ListGroupLogs() (map[string]string, error) {
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

func (s *PostgresStore) SetGroupLog(groupID, logChatID string) error {
	_, err := s.db.Exec(`
		INSERT INTO group_logs (group_id, log_chat_id) VALUES ($1, $2)
		ON CONFLICT (group_id) DO UPDATE SET log_chat_id=$2
	`, groupID, logChatID)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
