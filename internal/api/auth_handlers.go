package api

import (
	"net/http"

	"filedepot/internal/auth"
)

// ConnectHandler exchanges Basic credentials for a session token. A missing
// account and a wrong password fail identically so the endpoint cannot be
// used to enumerate emails.
func (s *Server) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok || email == "" || password == "" {
		respondError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}

	user, err := s.store.UserByEmail(r.Context(), email)
	if err != nil {
		s.log.Error("lookup user", "error", err)
		respondError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}

	token, err := s.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		s.log.Error("issue token", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// DisconnectHandler revokes the session token. A second disconnect on the
// same token fails because the token no longer resolves.
func (s *Server) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(TokenHeader)
	if token == "" {
		respondError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	revoked, err := s.tokens.Revoke(r.Context(), token)
	if err != nil {
		s.log.Error("revoke token", "error", err)
		respondError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	if !revoked {
		respondError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
