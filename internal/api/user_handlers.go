package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"filedepot/internal/auth"
	"filedepot/internal/catalog"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserHandler registers a new account and queues a welcome job on the
// user lane.
func (s *Server) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errMissingEmail)
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, errMissingEmail)
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, errMissingPassword)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error("hash password", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}

	user := &catalog.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, catalog.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, errAlreadyExist)
			return
		}
		s.log.Error("create user", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}

	// Registration succeeded regardless of whether the notification can be
	// queued.
	if err := s.jobs.EnqueueWelcome(r.Context(), user.ID); err != nil {
		s.log.Error("enqueue welcome job", "userId", user.ID, "error", err)
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

// CurrentUserHandler returns the account behind the session token.
func (s *Server) CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.UserByID(r.Context(), currentUserID(r.Context()))
	if err != nil {
		s.log.Error("lookup user", "error", err)
		respondError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}
