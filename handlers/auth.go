package handlers

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhansigoday/bookbridge/config"
	"github.com/jhansigoday/bookbridge/middleware"
	"github.com/jhansigoday/bookbridge/models"
	"github.com/jhansigoday/bookbridge/store"
	"github.com/jhansigoday/bookbridge/utils"
)

type UserStore interface {
	CreateUser(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateProfile(id string, p models.UpdateProfilePayload) error
}

type AuthHandler struct {
	Store UserStore
}

func NewAuthHandler(st UserStore) *AuthHandler {
	return &AuthHandler{Store: st}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	if payload.Username == "" || payload.Password == "" {
		utils.JSONError(w, "Username & password required", http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Username: payload.Username,
		Password: string(hashed),
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Address:  payload.Address,
	}
	if err := h.Store.CreateUser(user); err != nil {
		if err == store.ErrUserExists {
			utils.JSONError(w, err.Error(), http.StatusConflict)
			return
		}
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully",
		"user_id": user.ID,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		utils.JSONError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.Store.GetByUsername(req.Username)
	if err != nil {
		utils.JSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.JSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, config.GetConfig().Auth.TokenTTL)
	if err != nil {
		utils.JSONError(w, "Could not generate token", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Store.GetUserByID(claims.UserID)
	if err != nil {
		utils.JSONError(w, "User not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload models.UpdateProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.Store.UpdateProfile(claims.UserID, payload); err != nil {
		if err == store.ErrUserNotFound {
			utils.JSONError(w, "User not found", http.StatusNotFound)
			return
		}
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}
