package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jhansigoday/bookbridge/models"
)

func (s *MySQLStore) CreateUser(user *models.User) error {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", user.Username).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUserExists
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	_, err = s.db.Exec(
		"INSERT INTO users (id, username, password, full_name, phone, address, avatar_url, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Password, user.FullName, user.Phone, user.Address, user.AvatarURL, user.CreatedAt,
	)
	return err
}

func (s *MySQLStore) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var fullName, phone, address, avatarURL sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Password, &fullName, &phone, &address, &avatarURL, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user.FullName = fullName.String
	user.Phone = phone.String
	user.Address = address.String
	user.AvatarURL = avatarURL.String
	return user, nil
}

func (s *MySQLStore) GetByUsername(username string) (*models.User, error) {
	row := s.db.QueryRow(
		"SELECT id, username, password, full_name, phone, address, avatar_url, created_at FROM users WHERE username = ?",
		username,
	)
	return s.scanUser(row)
}

func (s *MySQLStore) GetUserByID(id string) (*models.User, error) {
	row := s.db.QueryRow(
		"SELECT id, username, password, full_name, phone, address, avatar_url, created_at FROM users WHERE id = ?",
		id,
	)
	return s.scanUser(row)
}

func (s *MySQLStore) UpdateProfile(id string, p models.UpdateProfilePayload) error {
	res, err := s.db.Exec(
		"UPDATE users SET full_name=?, phone=?, address=?, avatar_url=? WHERE id=?",
		p.FullName, p.Phone, p.Address, p.AvatarURL, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&count); err == nil && count == 0 {
			return ErrUserNotFound
		}
	}
	return nil
}
