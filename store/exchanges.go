package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jhansigoday/bookbridge/models"
)

// GetExchangeByRequest returns the contact exchange row for a request, or
// (nil, nil) when neither party has shared anything yet.
func (s *MySQLStore) GetExchangeByRequest(requestID string) (*models.ContactExchange, error) {
	e := &models.ContactExchange{}
	var donorPhone, donorAddress, requesterPhone, requesterAddress, status sql.NullString
	err := s.db.QueryRow(
		`SELECT id, request_id, donor_phone, donor_address, requester_phone, requester_address, status, created_at
		FROM contact_exchanges WHERE request_id = ?`, requestID,
	).Scan(&e.ID, &e.RequestID, &donorPhone, &donorAddress, &requesterPhone, &requesterAddress, &status, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.DonorPhone = donorPhone.String
	e.DonorAddress = donorAddress.String
	e.RequesterPhone = requesterPhone.String
	e.RequesterAddress = requesterAddress.String
	e.Status = status.String
	return e, nil
}

// ShareContact upserts one party's contact fields into the single exchange
// row for the request. Sharing twice updates the same row; the unique key on
// request_id makes the operation idempotent per party.
func (s *MySQLStore) ShareContact(requestID string, asDonor bool, phone, address string) error {
	var query string
	if asDonor {
		query = `INSERT INTO contact_exchanges (id, request_id, donor_phone, donor_address, status, created_at)
			VALUES (?, ?, ?, ?, 'open', ?)
			ON DUPLICATE KEY UPDATE donor_phone = VALUES(donor_phone), donor_address = VALUES(donor_address)`
	} else {
		query = `INSERT INTO contact_exchanges (id, request_id, requester_phone, requester_address, status, created_at)
			VALUES (?, ?, ?, ?, 'open', ?)
			ON DUPLICATE KEY UPDATE requester_phone = VALUES(requester_phone), requester_address = VALUES(requester_address)`
	}
	_, err := s.db.Exec(query, uuid.NewString(), requestID, phone, address, time.Now())
	return err
}
