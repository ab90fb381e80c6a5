package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jhansigoday/bookbridge/middleware"
	"github.com/jhansigoday/bookbridge/models"
	"github.com/jhansigoday/bookbridge/store"
	"github.com/jhansigoday/bookbridge/utils"
)

type ExchangeStore interface {
	GetRequestByID(id string) (*models.BookRequest, error)
	GetExchangeByRequest(requestID string) (*models.ContactExchange, error)
	ShareContact(requestID string, asDonor bool, phone, address string) error
	CompleteExchange(requestID string) error
	NotificationWriter
}

type ExchangeHandler struct {
	Store ExchangeStore
	Hub   *utils.Hub
}

func NewExchangeHandler(st ExchangeStore, hub *utils.Hub) *ExchangeHandler {
	return &ExchangeHandler{Store: st, Hub: hub}
}

// Get renders the contact exchange panel state for one request: the shared
// fields so far plus the viewer-relative gate booleans.
func (h *ExchangeHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, req, ok := h.loadParty(w, r)
	if !ok {
		return
	}

	exchange, err := h.Store.GetExchangeByRequest(req.ID)
	if err != nil {
		utils.JSONError(w, "Error fetching exchange", http.StatusInternalServerError)
		return
	}

	isDonor := req.DonorID == claims.UserID
	view := models.ExchangeView{
		Exchange:     exchange,
		RequestState: req.Status,
	}
	if isDonor {
		view.MyShared = exchange.DonorShared()
		view.TheirShared = exchange.RequesterShared()
	} else {
		view.MyShared = exchange.RequesterShared()
		view.TheirShared = exchange.DonorShared()
	}
	view.CanComplete = view.MyShared && view.TheirShared && req.Status.Completable()

	utils.WriteJSON(w, http.StatusOK, view)
}

// Share stores the caller's contact fields in the exchange row. Sharing is
// idempotent per party and only allowed while the request is accepted.
func (h *ExchangeHandler) Share(w http.ResponseWriter, r *http.Request) {
	claims, req, ok := h.loadParty(w, r)
	if !ok {
		return
	}
	if req.Status != models.RequestAccepted {
		utils.JSONError(w, "Contact details can only be shared for accepted requests", http.StatusConflict)
		return
	}

	var payload models.ShareContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	payload.Phone = strings.TrimSpace(payload.Phone)
	payload.Address = strings.TrimSpace(payload.Address)
	if payload.Phone == "" && payload.Address == "" {
		utils.JSONError(w, "Please provide at least your phone number or address", http.StatusBadRequest)
		return
	}

	isDonor := req.DonorID == claims.UserID
	if err := h.Store.ShareContact(req.ID, isDonor, payload.Phone, payload.Address); err != nil {
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	otherID := req.RequesterID
	roleText := "donor"
	if !isDonor {
		otherID = req.DonorID
		roleText = "recipient"
	}
	notify(h.Store, h.Hub, otherID, models.NotifContactShared,
		"Contact Details Shared",
		fmt.Sprintf("The book %s has shared their contact information for %q.", roleText, req.Book.Title))

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Contact information shared"})
}

// Complete finishes the exchange through one atomic store call: the book
// becomes donated and the request completed, or neither does.
func (h *ExchangeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	_, req, ok := h.loadParty(w, r)
	if !ok {
		return
	}

	if err := h.Store.CompleteExchange(req.ID); err != nil {
		switch err {
		case store.ErrExchangeNotReady:
			utils.JSONError(w, "Both parties must share contact details before completing", http.StatusConflict)
		case store.ErrRequestConflict:
			utils.JSONError(w, "Only accepted requests can be completed", http.StatusConflict)
		case store.ErrRequestNotFound:
			utils.JSONError(w, "Request not found", http.StatusNotFound)
		default:
			utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	title := req.Book.Title
	notify(h.Store, h.Hub, req.DonorID, models.NotifExchangeCompleted,
		"Book Exchange Completed!",
		fmt.Sprintf("Congratulations! Your book %q has been successfully donated. Thank you for contributing to our community!", title))
	notify(h.Store, h.Hub, req.RequesterID, models.NotifExchangeCompleted,
		"Book Received!",
		fmt.Sprintf("You have successfully received %q. Happy reading! Don't forget to consider donating books when you're done.", title))
	if h.Hub != nil {
		h.Hub.PublishAll(utils.Event{Table: "books", Action: "update", ID: req.BookID})
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Exchange completed"})
}

// loadParty fetches the request and verifies the caller is one of its two
// parties.
func (h *ExchangeHandler) loadParty(w http.ResponseWriter, r *http.Request) (*utils.Claims, *models.BookRequest, bool) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, nil, false
	}

	req, err := h.Store.GetRequestByID(mux.Vars(r)["requestID"])
	if err != nil {
		if err == store.ErrRequestNotFound {
			utils.JSONError(w, "Request not found", http.StatusNotFound)
		} else {
			utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return nil, nil, false
	}
	if req.RequesterID != claims.UserID && req.DonorID != claims.UserID {
		utils.JSONError(w, "Not a party to this request", http.StatusForbidden)
		return nil, nil, false
	}
	return claims, req, true
}
