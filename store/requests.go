package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jhansigoday/bookbridge/models"
)

const requestColumns = `r.id, r.book_id, r.requester_id, r.donor_id, r.message, r.status,
	r.created_at, r.updated_at,
	b.title, b.author, b.category, b.book_condition, b.description, b.status,
	ru.username, ru.full_name, du.username, du.full_name`

func scanRequest(row interface{ Scan(...interface{}) error }) (models.BookRequest, error) {
	var r models.BookRequest
	var message sql.NullString
	var bookCategory, bookCondition, bookDescription sql.NullString
	var requesterName, donorName sql.NullString
	var book models.Book
	var requester, donor models.Profile
	err := row.Scan(&r.ID, &r.BookID, &r.RequesterID, &r.DonorID, &message, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
		&book.Title, &book.Author, &bookCategory, &bookCondition, &bookDescription, &book.Status,
		&requester.Username, &requesterName, &donor.Username, &donorName)
	if err != nil {
		return r, err
	}
	r.Message = message.String
	book.ID = r.BookID
	book.Category = bookCategory.String
	book.Condition = bookCondition.String
	book.Description = bookDescription.String
	requester.FullName = requesterName.String
	donor.FullName = donorName.String
	requester.ID = r.RequesterID
	donor.ID = r.DonorID
	r.Book = &book
	r.Requester = &requester
	r.Donor = &donor
	return r, nil
}

const requestJoin = ` FROM book_requests r
	JOIN books b ON r.book_id = b.id
	JOIN users ru ON r.requester_id = ru.id
	JOIN users du ON r.donor_id = du.id`

func (s *MySQLStore) queryRequests(query string, args ...interface{}) ([]models.BookRequest, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.BookRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *MySQLStore) CreateRequest(req *models.BookRequest) error {
	req.ID = uuid.NewString()
	req.Status = models.RequestPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	_, err := s.db.Exec(
		"INSERT INTO book_requests (id, book_id, requester_id, donor_id, message, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		req.ID, req.BookID, req.RequesterID, req.DonorID, req.Message, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	return err
}

func (s *MySQLStore) GetRequestByID(id string) (*models.BookRequest, error) {
	row := s.db.QueryRow("SELECT "+requestColumns+requestJoin+" WHERE r.id = ?", id)
	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MySQLStore) GetRequestsByRequester(userID string) ([]models.BookRequest, error) {
	return s.queryRequests(
		"SELECT "+requestColumns+requestJoin+" WHERE r.requester_id = ? ORDER BY r.created_at DESC", userID)
}

func (s *MySQLStore) GetRequestsByDonor(userID string) ([]models.BookRequest, error) {
	return s.queryRequests(
		"SELECT "+requestColumns+requestJoin+" WHERE r.donor_id = ? ORDER BY r.created_at DESC", userID)
}

// AcceptRequest moves a pending request to accepted and the referenced book
// from available to requested in one transaction. A request that is no longer
// pending, or a book that is no longer available, aborts the whole
// transition, so two donors racing on the same book cannot both win.
func (s *MySQLStore) AcceptRequest(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var bookID string
	err = tx.QueryRow("SELECT book_id FROM book_requests WHERE id = ?", id).Scan(&bookID)
	if err == sql.ErrNoRows {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}

	res, err := tx.Exec(
		"UPDATE book_requests SET status = 'accepted', updated_at = ? WHERE id = ? AND status = 'pending'",
		time.Now(), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRequestConflict
	}

	res, err = tx.Exec("UPDATE books SET status = 'requested' WHERE id = ? AND status = 'available'", bookID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookUnavailable
	}

	return tx.Commit()
}

// RejectRequest moves a pending request to rejected. The book is untouched:
// it only leaves available once a request is accepted.
func (s *MySQLStore) RejectRequest(id string) error {
	res, err := s.db.Exec(
		"UPDATE book_requests SET status = 'rejected', updated_at = ? WHERE id = ? AND status = 'pending'",
		time.Now(), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM book_requests WHERE id = ?", id).Scan(&count); err == nil && count == 0 {
			return ErrRequestNotFound
		}
		return ErrRequestConflict
	}
	return nil
}

// DeleteRequest removes a request still in pending or rejected state. The
// contact exchange row, if any, goes with it through the cascade.
func (s *MySQLStore) DeleteRequest(id string) error {
	res, err := s.db.Exec(
		"DELETE FROM book_requests WHERE id = ? AND status IN ('pending', 'rejected')", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRequestConflict
	}
	return nil
}

// CompleteExchange finishes an accepted request whose contact exchange has
// both sides populated: the book becomes donated and the request completed,
// atomically. Partial states cannot be observed as success.
func (s *MySQLStore) CompleteExchange(requestID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var bookID string
	var status models.RequestStatus
	err = tx.QueryRow("SELECT book_id, status FROM book_requests WHERE id = ?", requestID).Scan(&bookID, &status)
	if err == sql.ErrNoRows {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}
	if !status.Completable() {
		return ErrRequestConflict
	}

	var donorPhone, donorAddress, requesterPhone, requesterAddress sql.NullString
	err = tx.QueryRow(
		"SELECT donor_phone, donor_address, requester_phone, requester_address FROM contact_exchanges WHERE request_id = ?",
		requestID,
	).Scan(&donorPhone, &donorAddress, &requesterPhone, &requesterAddress)
	if err == sql.ErrNoRows {
		return ErrExchangeNotReady
	}
	if err != nil {
		return err
	}
	donorShared := donorPhone.String != "" || donorAddress.String != ""
	requesterShared := requesterPhone.String != "" || requesterAddress.String != ""
	if !donorShared || !requesterShared {
		return ErrExchangeNotReady
	}

	if _, err := tx.Exec("UPDATE books SET status = 'donated' WHERE id = ?", bookID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"UPDATE book_requests SET status = 'completed', updated_at = ? WHERE id = ?",
		time.Now(), requestID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"UPDATE contact_exchanges SET status = 'completed' WHERE request_id = ?", requestID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *MySQLStore) CountRequests(userID string) (sent, received int, err error) {
	err = s.db.QueryRow("SELECT COUNT(*) FROM book_requests WHERE requester_id = ?", userID).Scan(&sent)
	if err != nil {
		return 0, 0, err
	}
	err = s.db.QueryRow("SELECT COUNT(*) FROM book_requests WHERE donor_id = ?", userID).Scan(&received)
	if err != nil {
		return 0, 0, err
	}
	return sent, received, nil
}

// CountPendingReceivedSince counts pending requests addressed to the donor,
// created after the seen marker. A nil marker counts all of them.
func (s *MySQLStore) CountPendingReceivedSince(donorID string, since *time.Time) (int, error) {
	var count int
	var err error
	if since == nil {
		err = s.db.QueryRow(
			"SELECT COUNT(*) FROM book_requests WHERE donor_id = ? AND status = 'pending'", donorID,
		).Scan(&count)
	} else {
		err = s.db.QueryRow(
			"SELECT COUNT(*) FROM book_requests WHERE donor_id = ? AND status = 'pending' AND created_at > ?",
			donorID, *since,
		).Scan(&count)
	}
	return count, err
}

// MarkRequestsSeen records a server-side "requests page visited" marker.
func (s *MySQLStore) MarkRequestsSeen(userID string) error {
	_, err := s.db.Exec(
		"INSERT INTO request_seen (user_id, seen_at) VALUES (?, ?) ON DUPLICATE KEY UPDATE seen_at = VALUES(seen_at)",
		userID, time.Now(),
	)
	return err
}

// GetRequestsSeen returns the seen marker, or nil when the user has never
// visited the requests page.
func (s *MySQLStore) GetRequestsSeen(userID string) (*time.Time, error) {
	var seen time.Time
	err := s.db.QueryRow("SELECT seen_at FROM request_seen WHERE user_id = ?", userID).Scan(&seen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seen, nil
}

// GetStalePendingRequests lists pending requests created before the cutoff,
// with the book title populated for reminder messages.
func (s *MySQLStore) GetStalePendingRequests(cutoff time.Time) ([]models.BookRequest, error) {
	rows, err := s.db.Query(
		`SELECT r.id, r.book_id, r.requester_id, r.donor_id, r.created_at, b.title
		FROM book_requests r
		JOIN books b ON r.book_id = b.id
		WHERE r.status = 'pending' AND r.created_at < ?`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.BookRequest
	for rows.Next() {
		var r models.BookRequest
		var title string
		if err := rows.Scan(&r.ID, &r.BookID, &r.RequesterID, &r.DonorID, &r.CreatedAt, &title); err != nil {
			return nil, err
		}
		r.Status = models.RequestPending
		r.Book = &models.Book{ID: r.BookID, Title: title}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
