package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jhansigoday/bookbridge/middleware"
	"github.com/jhansigoday/bookbridge/models"
	"github.com/jhansigoday/bookbridge/store"
	"github.com/jhansigoday/bookbridge/utils"
)

type NotificationStore interface {
	GetNotifications(userID string) ([]models.Notification, error)
	CountUnread(userID string) (int, error)
	MarkNotificationRead(id int64, userID string) error
	MarkAllNotificationsRead(userID string) error
	DeleteNotification(id int64, userID string) error
	NotificationWriter
}

type NotificationHandler struct {
	Store NotificationStore
	Hub   *utils.Hub
}

func NewNotificationHandler(st NotificationStore, hub *utils.Hub) *NotificationHandler {
	return &NotificationHandler{Store: st, Hub: hub}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notifs, err := h.Store.GetNotifications(claims.UserID)
	if err != nil {
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if notifs == nil {
		notifs = []models.Notification{}
	}
	utils.WriteJSON(w, http.StatusOK, notifs)
}

// UnreadCount equals the number of the caller's rows with read = false.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.Store.CountUnread(claims.UserID)
	if err != nil {
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.JSONError(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.Store.MarkNotificationRead(id, claims.UserID); err != nil {
		if err == store.ErrNotificationNotFound {
			utils.JSONError(w, "Notification not found", http.StatusNotFound)
			return
		}
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Notification marked read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Store.MarkAllNotificationsRead(claims.UserID); err != nil {
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked read"})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.JSONError(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteNotification(id, claims.UserID); err != nil {
		if err == store.ErrNotificationNotFound {
			utils.JSONError(w, "Notification not found", http.StatusNotFound)
			return
		}
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}

// Create mirrors the create_book_notification remote procedure: a thin
// wrapper inserting a row for the target user, with no validation beyond
// the required fields.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload models.CreateNotificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" || payload.Title == "" || payload.Message == "" {
		utils.JSONError(w, "user_id, title and message are required", http.StatusBadRequest)
		return
	}

	if err := h.Store.CreateNotification(payload.UserID, payload.Type, payload.Title, payload.Message); err != nil {
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if h.Hub != nil {
		h.Hub.Publish(payload.UserID, utils.Event{Table: "notifications", Action: "insert"})
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]string{"message": "Notification sent"})
}
