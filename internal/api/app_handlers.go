package api

import "net/http"

// StatusHandler reports liveness of the two collaborator stores.
func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(w, http.StatusOK, map[string]bool{
		"redis": s.tokens.Ping(ctx) == nil,
		"db":    s.store.Ping(ctx) == nil,
	})
}

// StatsHandler reports account and catalog entry counts.
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		s.log.Error("count users", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	files, err := s.store.CountFiles(ctx)
	if err != nil {
		s.log.Error("count files", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
