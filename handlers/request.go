package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jhansigoday/bookbridge/middleware"
	"github.com/jhansigoday/bookbridge/models"
	"github.com/jhansigoday/bookbridge/store"
	"github.com/jhansigoday/bookbridge/utils"
)

type RequestStore interface {
	GetBookByID(id string) (*models.Book, error)
	CreateRequest(req *models.BookRequest) error
	GetRequestByID(id string) (*models.BookRequest, error)
	GetRequestsByRequester(userID string) ([]models.BookRequest, error)
	GetRequestsByDonor(userID string) ([]models.BookRequest, error)
	AcceptRequest(id string) error
	RejectRequest(id string) error
	DeleteRequest(id string) error
	CountRequests(userID string) (sent, received int, err error)
	CountPendingReceivedSince(donorID string, since *time.Time) (int, error)
	MarkRequestsSeen(userID string) error
	GetRequestsSeen(userID string) (*time.Time, error)
	NotificationWriter
}

type RequestHandler struct {
	Store RequestStore
	Hub   *utils.Hub
}

func NewRequestHandler(st RequestStore, hub *utils.Hub) *RequestHandler {
	return &RequestHandler{Store: st, Hub: hub}
}

// Create files a pending request for a browsable book.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload models.CreateRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if payload.BookID == "" {
		utils.JSONError(w, "book_id required", http.StatusBadRequest)
		return
	}

	book, err := h.Store.GetBookByID(payload.BookID)
	if err != nil {
		if err == store.ErrBookNotFound {
			utils.JSONError(w, "Book not found", http.StatusNotFound)
			return
		}
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if book.DonorID == claims.UserID {
		utils.JSONError(w, "You cannot request your own book", http.StatusBadRequest)
		return
	}
	if !book.Browsable() {
		utils.JSONError(w, "Book is not available for requests", http.StatusConflict)
		return
	}

	req := &models.BookRequest{
		BookID:      book.ID,
		RequesterID: claims.UserID,
		DonorID:     book.DonorID,
		Message:     payload.Message,
	}
	if err := h.Store.CreateRequest(req); err != nil {
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	notify(h.Store, h.Hub, book.DonorID, models.NotifBookRequest,
		"New Book Request!",
		fmt.Sprintf("Someone has requested your book %q. Check your requests to accept or decline.", book.Title))
	notify(h.Store, h.Hub, claims.UserID, models.NotifRequestSent,
		"Request Sent!",
		fmt.Sprintf("Your request for %q has been sent to the donor. You'll be notified when they respond.", book.Title))
	h.publishChange(req)

	utils.WriteJSON(w, http.StatusCreated, req)
}

// Sent lists requests the caller made.
func (h *RequestHandler) Sent(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requests, err := h.Store.GetRequestsByRequester(claims.UserID)
	if err != nil {
		utils.JSONError(w, "Error fetching requests", http.StatusInternalServerError)
		return
	}
	if requests == nil {
		requests = []models.BookRequest{}
	}
	utils.WriteJSON(w, http.StatusOK, requests)
}

// Received lists requests for the caller's books.
func (h *RequestHandler) Received(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requests, err := h.Store.GetRequestsByDonor(claims.UserID)
	if err != nil {
		utils.JSONError(w, "Error fetching requests", http.StatusInternalServerError)
		return
	}
	if requests == nil {
		requests = []models.BookRequest{}
	}
	utils.WriteJSON(w, http.StatusOK, requests)
}

// Accept moves a pending request to accepted; only the donor may decide.
func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := h.loadRequest(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	if req.DonorID != claims.UserID {
		utils.JSONError(w, "Only the donor can accept a request", http.StatusForbidden)
		return
	}
	if !req.Status.Decidable() {
		utils.JSONError(w, "Request has already been decided", http.StatusConflict)
		return
	}

	if err := h.Store.AcceptRequest(req.ID); err != nil {
		switch err {
		case store.ErrRequestConflict:
			utils.JSONError(w, "Request has already been decided", http.StatusConflict)
		case store.ErrBookUnavailable:
			utils.JSONError(w, "Book is no longer available", http.StatusConflict)
		case store.ErrRequestNotFound:
			utils.JSONError(w, "Request not found", http.StatusNotFound)
		default:
			utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	notify(h.Store, h.Hub, req.RequesterID, models.NotifRequestAccepted,
		"Book Request Accepted!",
		fmt.Sprintf("Great news! Your request for %q has been accepted. You can now exchange contact information with the donor to arrange pickup.", req.Book.Title))
	h.publishChange(req)

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Request accepted"})
}

// Reject declines a pending request; only the donor may decide.
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := h.loadRequest(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	if req.DonorID != claims.UserID {
		utils.JSONError(w, "Only the donor can reject a request", http.StatusForbidden)
		return
	}
	if !req.Status.Decidable() {
		utils.JSONError(w, "Request has already been decided", http.StatusConflict)
		return
	}

	if err := h.Store.RejectRequest(req.ID); err != nil {
		switch err {
		case store.ErrRequestConflict:
			utils.JSONError(w, "Request has already been decided", http.StatusConflict)
		case store.ErrRequestNotFound:
			utils.JSONError(w, "Request not found", http.StatusNotFound)
		default:
			utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	notify(h.Store, h.Hub, req.RequesterID, models.NotifRequestRejected,
		"Book Request Declined",
		fmt.Sprintf("Unfortunately, your request for %q has been declined by the donor. Don't worry, there are many other books available!", req.Book.Title))
	h.publishChange(req)

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Request declined"})
}

// Delete removes a pending or rejected request; either party may do it.
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := h.loadRequest(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	if req.RequesterID != claims.UserID && req.DonorID != claims.UserID {
		utils.JSONError(w, "Not a party to this request", http.StatusForbidden)
		return
	}
	if !req.Status.Deletable() {
		utils.JSONError(w, "Only pending or rejected requests can be deleted", http.StatusConflict)
		return
	}

	if err := h.Store.DeleteRequest(req.ID); err != nil {
		if err == store.ErrRequestConflict {
			utils.JSONError(w, "Only pending or rejected requests can be deleted", http.StatusConflict)
			return
		}
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.publishChange(req)
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Request deleted"})
}

// Badge reports the navigation counters: total requests either way, and
// pending received requests newer than the server-side seen marker.
func (h *RequestHandler) Badge(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sent, received, err := h.Store.CountRequests(claims.UserID)
	if err != nil {
		utils.JSONError(w, "Error counting requests", http.StatusInternalServerError)
		return
	}
	seen, err := h.Store.GetRequestsSeen(claims.UserID)
	if err != nil {
		utils.JSONError(w, "Error reading seen marker", http.StatusInternalServerError)
		return
	}
	newPending, err := h.Store.CountPendingReceivedSince(claims.UserID, seen)
	if err != nil {
		utils.JSONError(w, "Error counting requests", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.RequestBadge{
		Total:      sent + received,
		NewPending: newPending,
	})
}

// Seen records that the caller visited the requests page.
func (h *RequestHandler) Seen(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.Store.MarkRequestsSeen(claims.UserID); err != nil {
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Requests marked seen"})
}

func (h *RequestHandler) loadRequest(w http.ResponseWriter, id string) (*models.BookRequest, bool) {
	req, err := h.Store.GetRequestByID(id)
	if err != nil {
		if err == store.ErrRequestNotFound {
			utils.JSONError(w, "Request not found", http.StatusNotFound)
		} else {
			utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return req, true
}

func (h *RequestHandler) publishChange(req *models.BookRequest) {
	if h.Hub == nil {
		return
	}
	ev := utils.Event{Table: "book_requests", Action: "change", ID: req.ID}
	h.Hub.Publish(req.RequesterID, ev)
	h.Hub.Publish(req.DonorID, ev)
}
