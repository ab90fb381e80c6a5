package models

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

// Decidable reports whether the donor may still accept or reject.
func (s RequestStatus) Decidable() bool {
	return s == RequestPending
}

// Deletable reports whether either party may remove the request.
func (s RequestStatus) Deletable() bool {
	return s == RequestPending || s == RequestRejected
}

// Completable reports whether the exchange may be marked completed.
func (s RequestStatus) Completable() bool {
	return s == RequestAccepted
}

// BookRequest is a proposal by one user to receive a book from its donor.
type BookRequest struct {
	ID          string        `json:"id" db:"id"`
	BookID      string        `json:"book_id" db:"book_id"`
	RequesterID string        `json:"requester_id" db:"requester_id"`
	DonorID     string        `json:"donor_id" db:"donor_id"`
	Message     string        `json:"message,omitempty" db:"message"`
	Status      RequestStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	Book      *Book    `json:"book,omitempty"`
	Requester *Profile `json:"requester,omitempty"`
	Donor     *Profile `json:"donor,omitempty"`
}

// CreateRequestPayload is the payload for requesting a book.
type CreateRequestPayload struct {
	BookID  string `json:"book_id"`
	Message string `json:"message"`
}

// RequestBadge summarises request activity for the navigation shell.
// NewPending counts pending received requests created after the user's
// server-tracked seen marker.
type RequestBadge struct {
	Total      int `json:"total"`
	NewPending int `json:"new_pending"`
}
