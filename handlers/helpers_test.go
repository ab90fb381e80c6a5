package handlers_test

import (
	"context"
	"net/http"
	"time"

	"github.com/jhansigoday/bookbridge/middleware"
	"github.com/jhansigoday/bookbridge/models"
	"github.com/jhansigoday/bookbridge/store"
	"github.com/jhansigoday/bookbridge/utils"
)

// authed attaches claims the way the auth middleware would.
func authed(r *http.Request, userID string) *http.Request {
	claims := &utils.Claims{UserID: userID, Username: userID}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserCtxKey, claims))
}

type fakeNotif struct {
	UserID  string
	Type    string
	Title   string
	Message string
}

// fakeStore mimics the MySQL store's guarded transitions in memory so
// handler behavior can be exercised without a database.
type fakeStore struct {
	books     map[string]*models.Book
	requests  map[string]*models.BookRequest
	exchanges map[string]*models.ContactExchange
	seen      map[string]*time.Time
	notifs    []fakeNotif

	completeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:     map[string]*models.Book{},
		requests:  map[string]*models.BookRequest{},
		exchanges: map[string]*models.ContactExchange{},
		seen:      map[string]*time.Time{},
	}
}

func (f *fakeStore) CreateNotification(userID, ntype, title, message string) error {
	f.notifs = append(f.notifs, fakeNotif{userID, ntype, title, message})
	return nil
}

func (f *fakeStore) notifCount(userID, ntype string) int {
	n := 0
	for _, nt := range f.notifs {
		if nt.UserID == userID && nt.Type == ntype {
			n++
		}
	}
	return n
}

func (f *fakeStore) CreateBook(book *models.Book) error {
	if book.ID == "" {
		book.ID = "book-" + book.Title
	}
	book.Status = models.BookAvailable
	f.books[book.ID] = book
	return nil
}

func (f *fakeStore) GetBookByID(id string) (*models.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	return b, nil
}

func (f *fakeStore) GetBrowsableBooks() ([]models.Book, error) {
	var out []models.Book
	for _, b := range f.books {
		if b.Browsable() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) GetFreeBooks() ([]models.Book, error) {
	var out []models.Book
	for _, b := range f.books {
		if b.IsFreeToRead && b.Status != models.BookDonated {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) GetBooksByDonor(donorID string) ([]models.Book, error) {
	var out []models.Book
	for _, b := range f.books {
		if b.DonorID == donorID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteBook(id, donorID string) error {
	b, ok := f.books[id]
	if !ok || b.DonorID != donorID {
		return store.ErrBookNotFound
	}
	delete(f.books, id)
	for rid, r := range f.requests {
		if r.BookID == id {
			delete(f.requests, rid)
			delete(f.exchanges, rid)
		}
	}
	return nil
}

func (f *fakeStore) CreateRequest(req *models.BookRequest) error {
	if req.ID == "" {
		req.ID = "req-" + req.BookID
	}
	req.Status = models.RequestPending
	req.CreatedAt = time.Now()
	if b, ok := f.books[req.BookID]; ok {
		req.Book = b
	}
	f.requests[req.ID] = req
	return nil
}

func (f *fakeStore) GetRequestByID(id string) (*models.BookRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, store.ErrRequestNotFound
	}
	return r, nil
}

func (f *fakeStore) GetRequestsByRequester(userID string) ([]models.BookRequest, error) {
	var out []models.BookRequest
	for _, r := range f.requests {
		if r.RequesterID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetRequestsByDonor(userID string) ([]models.BookRequest, error) {
	var out []models.BookRequest
	for _, r := range f.requests {
		if r.DonorID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) AcceptRequest(id string) error {
	r, ok := f.requests[id]
	if !ok {
		return store.ErrRequestNotFound
	}
	if r.Status != models.RequestPending {
		return store.ErrRequestConflict
	}
	b, ok := f.books[r.BookID]
	if !ok || b.Status != models.BookAvailable {
		return store.ErrBookUnavailable
	}
	r.Status = models.RequestAccepted
	b.Status = models.BookRequested
	return nil
}

func (f *fakeStore) RejectRequest(id string) error {
	r, ok := f.requests[id]
	if !ok {
		return store.ErrRequestNotFound
	}
	if r.Status != models.RequestPending {
		return store.ErrRequestConflict
	}
	r.Status = models.RequestRejected
	return nil
}

func (f *fakeStore) DeleteRequest(id string) error {
	r, ok := f.requests[id]
	if !ok {
		return store.ErrRequestNotFound
	}
	if !r.Status.Deletable() {
		return store.ErrRequestConflict
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeStore) CountRequests(userID string) (sent, received int, err error) {
	for _, r := range f.requests {
		if r.RequesterID == userID {
			sent++
		}
		if r.DonorID == userID {
			received++
		}
	}
	return sent, received, nil
}

func (f *fakeStore) CountPendingReceivedSince(donorID string, since *time.Time) (int, error) {
	n := 0
	for _, r := range f.requests {
		if r.DonorID != donorID || r.Status != models.RequestPending {
			continue
		}
		if since != nil && !r.CreatedAt.After(*since) {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeStore) MarkRequestsSeen(userID string) error {
	now := time.Now()
	f.seen[userID] = &now
	return nil
}

func (f *fakeStore) GetRequestsSeen(userID string) (*time.Time, error) {
	return f.seen[userID], nil
}

func (f *fakeStore) GetExchangeByRequest(requestID string) (*models.ContactExchange, error) {
	return f.exchanges[requestID], nil
}

func (f *fakeStore) ShareContact(requestID string, asDonor bool, phone, address string) error {
	ex, ok := f.exchanges[requestID]
	if !ok {
		ex = &models.ContactExchange{ID: "ex-" + requestID, RequestID: requestID, Status: "active"}
		f.exchanges[requestID] = ex
	}
	if asDonor {
		ex.DonorPhone, ex.DonorAddress = phone, address
	} else {
		ex.RequesterPhone, ex.RequesterAddress = phone, address
	}
	return nil
}

func (f *fakeStore) CompleteExchange(requestID string) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	r, ok := f.requests[requestID]
	if !ok {
		return store.ErrRequestNotFound
	}
	if !r.Status.Completable() {
		return store.ErrRequestConflict
	}
	if !f.exchanges[requestID].BothShared() {
		return store.ErrExchangeNotReady
	}
	r.Status = models.RequestCompleted
	if b, ok := f.books[r.BookID]; ok {
		b.Status = models.BookDonated
	}
	f.exchanges[requestID].Status = "completed"
	return nil
}
