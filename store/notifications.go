package store

import (
	"time"

	"github.com/jhansigoday/bookbridge/models"
)

func (s *MySQLStore) CreateNotification(userID, ntype, title, message string) error {
	_, err := s.db.Exec(
		"INSERT INTO notifications (user_id, type, title, message, is_read, created_at) VALUES (?, ?, ?, ?, FALSE, ?)",
		userID, ntype, title, message, time.Now(),
	)
	return err
}

// NotificationExists lets the reminder worker avoid re-inserting the same
// nudge while an identical one is already in the user's feed.
func (s *MySQLStore) NotificationExists(userID, ntype, message string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND type = ? AND message = ?",
		userID, ntype, message,
	).Scan(&count)
	return count > 0, err
}

func (s *MySQLStore) GetNotifications(userID string) ([]models.Notification, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, type, title, message, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (s *MySQLStore) CountUnread(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE", userID,
	).Scan(&count)
	return count, err
}

func (s *MySQLStore) MarkNotificationRead(id int64, userID string) error {
	res, err := s.db.Exec(
		"UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var count int
		if err := s.db.QueryRow(
			"SELECT COUNT(*) FROM notifications WHERE id = ? AND user_id = ?", id, userID,
		).Scan(&count); err == nil && count == 0 {
			return ErrNotificationNotFound
		}
	}
	return nil
}

func (s *MySQLStore) MarkAllNotificationsRead(userID string) error {
	_, err := s.db.Exec(
		"UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE", userID)
	return err
}

func (s *MySQLStore) DeleteNotification(id int64, userID string) error {
	res, err := s.db.Exec("DELETE FROM notifications WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
