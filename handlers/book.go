package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jhansigoday/bookbridge/middleware"
	"github.com/jhansigoday/bookbridge/models"
	"github.com/jhansigoday/bookbridge/store"
	"github.com/jhansigoday/bookbridge/utils"
)

type BookStore interface {
	CreateBook(book *models.Book) error
	GetBrowsableBooks() ([]models.Book, error)
	GetFreeBooks() ([]models.Book, error)
	GetBooksByDonor(donorID string) ([]models.Book, error)
	DeleteBook(id, donorID string) error
	NotificationWriter
}

type BookHandler struct {
	Store BookStore
	Hub   *utils.Hub
}

func NewBookHandler(st BookStore, hub *utils.Hub) *BookHandler {
	return &BookHandler{Store: st, Hub: hub}
}

// Browse lists books open for requests. Filter predicates combine as an AND
// over the fetched list: substring match on title/author, equality on
// category, condition and sharing type.
func (h *BookHandler) Browse(w http.ResponseWriter, r *http.Request) {
	books, err := h.Store.GetBrowsableBooks()
	if err != nil {
		utils.JSONError(w, "Error fetching books", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	filter := models.BookFilter{
		Query:       q.Get("q"),
		Category:    q.Get("category"),
		Condition:   q.Get("condition"),
		SharingType: q.Get("sharing_type"),
	}

	utils.WriteJSON(w, http.StatusOK, models.FilterBooks(books, filter))
}

// FreeToRead lists books offered for online reading.
func (h *BookHandler) FreeToRead(w http.ResponseWriter, r *http.Request) {
	books, err := h.Store.GetFreeBooks()
	if err != nil {
		utils.JSONError(w, "Error fetching books", http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	utils.WriteJSON(w, http.StatusOK, books)
}

// MyDonations lists the caller's own books with their lifecycle status.
func (h *BookHandler) MyDonations(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	books, err := h.Store.GetBooksByDonor(claims.UserID)
	if err != nil {
		utils.JSONError(w, "Error fetching books", http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	utils.WriteJSON(w, http.StatusOK, books)
}

// Donate validates the required fields and lists a new book as available.
func (h *BookHandler) Donate(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload models.DonateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	if payload.Title == "" || payload.Author == "" || payload.Category == "" {
		utils.JSONError(w, "Title, author and category are required", http.StatusBadRequest)
		return
	}
	if !models.ValidCategory(payload.Category) {
		utils.JSONError(w, "Invalid category", http.StatusBadRequest)
		return
	}
	if payload.Condition == "" {
		payload.Condition = "good"
	}
	if !models.ValidCondition(payload.Condition) {
		utils.JSONError(w, "Invalid condition", http.StatusBadRequest)
		return
	}
	if payload.SharingType == "" {
		payload.SharingType = models.SharingFreeDonation
	}
	if !models.ValidSharingType(payload.SharingType) {
		utils.JSONError(w, "Invalid sharing type", http.StatusBadRequest)
		return
	}

	book := &models.Book{
		Title:         payload.Title,
		Author:        payload.Author,
		Category:      payload.Category,
		Description:   payload.Description,
		Condition:     payload.Condition,
		Status:        models.BookAvailable,
		IsFreeToRead:  payload.IsFreeToRead,
		DonorID:       claims.UserID,
		SharingType:   payload.SharingType,
		Price:         payload.Price,
		TimeSpanDays:  payload.TimeSpanDays,
		DonorLocation: payload.DonorLocation,
		CoverURL:      payload.CoverURL,
	}
	if err := h.Store.CreateBook(book); err != nil {
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	notify(h.Store, h.Hub, claims.UserID, models.NotifBookDonated,
		"Book Donated Successfully",
		fmt.Sprintf("Your book %q has been added to the platform and is now available for requests.", book.Title))
	if h.Hub != nil {
		h.Hub.PublishAll(utils.Event{Table: "books", Action: "insert", ID: book.ID})
	}

	utils.WriteJSON(w, http.StatusCreated, book)
}

// Delete removes one of the caller's books; its requests and their contact
// exchanges go with it.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Store.DeleteBook(id, claims.UserID); err != nil {
		if err == store.ErrBookNotFound {
			utils.JSONError(w, "Book not found", http.StatusNotFound)
			return
		}
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.Hub != nil {
		h.Hub.PublishAll(utils.Event{Table: "books", Action: "delete", ID: id})
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}
