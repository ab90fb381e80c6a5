package models

import "time"

// ContactExchange holds each party's voluntarily shared contact details,
// one row per book request.
type ContactExchange struct {
	ID               string    `json:"id" db:"id"`
	RequestID        string    `json:"request_id" db:"request_id"`
	DonorPhone       string    `json:"donor_phone,omitempty" db:"donor_phone"`
	DonorAddress     string    `json:"donor_address,omitempty" db:"donor_address"`
	RequesterPhone   string    `json:"requester_phone,omitempty" db:"requester_phone"`
	RequesterAddress string    `json:"requester_address,omitempty" db:"requester_address"`
	Status           string    `json:"status" db:"status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// DonorShared reports whether the donor side has been populated. Presence of
// a non-empty phone or address is the sole signal.
func (e *ContactExchange) DonorShared() bool {
	return e != nil && (e.DonorPhone != "" || e.DonorAddress != "")
}

// RequesterShared reports whether the requester side has been populated.
func (e *ContactExchange) RequesterShared() bool {
	return e != nil && (e.RequesterPhone != "" || e.RequesterAddress != "")
}

// BothShared gates the complete action: true only when each party has shared
// at least one contact field.
func (e *ContactExchange) BothShared() bool {
	return e.DonorShared() && e.RequesterShared()
}

// ShareContactPayload is the payload for sharing one party's details.
type ShareContactPayload struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ExchangeView is what the contact exchange panel renders: the row plus the
// viewer-relative gate booleans.
type ExchangeView struct {
	Exchange     *ContactExchange `json:"exchange,omitempty"`
	MyShared     bool             `json:"my_shared"`
	TheirShared  bool             `json:"their_shared"`
	CanComplete  bool             `json:"can_complete"`
	RequestState RequestStatus    `json:"request_status"`
}
