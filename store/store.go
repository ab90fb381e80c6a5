package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

var (
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrBookUnavailable      = errors.New("book is not available")
	ErrRequestNotFound      = errors.New("request not found")
	ErrRequestConflict      = errors.New("request status does not allow this transition")
	ErrExchangeNotReady     = errors.New("both parties must share contact details first")
	ErrNotificationNotFound = errors.New("notification not found")
)

type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) InitSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			full_name VARCHAR(255),
			phone VARCHAR(50),
			address TEXT,
			avatar_url VARCHAR(255),
			created_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			category VARCHAR(100),
			description TEXT,
			book_condition VARCHAR(20),
			status VARCHAR(20) NOT NULL DEFAULT 'available',
			is_free_to_read BOOLEAN DEFAULT FALSE,
			is_featured BOOLEAN DEFAULT FALSE,
			donor_id VARCHAR(36) NOT NULL,
			sharing_type VARCHAR(30) DEFAULT 'free_donation',
			price INT DEFAULT 0,
			time_span_days INT DEFAULT 0,
			donor_location VARCHAR(255),
			cover_url VARCHAR(255),
			created_at DATETIME,
			FOREIGN KEY (donor_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS book_requests (
			id VARCHAR(36) PRIMARY KEY,
			book_id VARCHAR(36) NOT NULL,
			requester_id VARCHAR(36) NOT NULL,
			donor_id VARCHAR(36) NOT NULL,
			message TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at DATETIME,
			updated_at DATETIME,
			FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE,
			FOREIGN KEY (requester_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (donor_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS contact_exchanges (
			id VARCHAR(36) PRIMARY KEY,
			request_id VARCHAR(36) NOT NULL UNIQUE,
			donor_phone VARCHAR(50),
			donor_address TEXT,
			requester_phone VARCHAR(50),
			requester_address TEXT,
			status VARCHAR(20) DEFAULT 'open',
			created_at DATETIME,
			FOREIGN KEY (request_id) REFERENCES book_requests(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			type VARCHAR(50) NOT NULL,
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN DEFAULT FALSE,
			created_at DATETIME,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS request_seen (
			user_id VARCHAR(36) PRIMARY KEY,
			seen_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %v, error: %w", query, err)
		}
	}

	return nil
}
