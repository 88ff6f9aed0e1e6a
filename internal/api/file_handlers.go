package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"filedepot/internal/catalog"
	"filedepot/internal/storage"
)

// parentID accepts both the JSON number 0 and a string id, matching what
// clients send for the root level.
type parentID string

func (p *parentID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = parentID(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*p = parentID(strconv.FormatInt(n, 10))
		return nil
	}
	return fmt.Errorf("invalid parentId")
}

type uploadRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	ParentID parentID `json:"parentId"`
	IsPublic bool     `json:"isPublic"`
	Data     string   `json:"data"`
}

// UploadHandler creates a folder or persists an uploaded file/image. Image
// uploads additionally enqueue a thumbnail job on the file lane.
func (s *Server) UploadHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := currentUserID(ctx)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errMissingName)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errMissingName)
		return
	}
	if !catalog.ValidType(req.Type) {
		respondError(w, http.StatusBadRequest, errMissingType)
		return
	}
	if req.Type != catalog.TypeFolder && req.Data == "" {
		respondError(w, http.StatusBadRequest, errMissingData)
		return
	}

	pid := string(req.ParentID)
	if pid == "" {
		pid = catalog.RootParent
	}
	if pid != catalog.RootParent {
		parent, err := s.store.FileByID(ctx, pid)
		if err != nil {
			s.log.Error("lookup parent", "parentId", pid, "error", err)
			respondError(w, http.StatusInternalServerError, errInternal)
			return
		}
		if parent == nil {
			respondError(w, http.StatusBadRequest, errParentNotFound)
			return
		}
		if parent.Type != catalog.TypeFolder {
			respondError(w, http.StatusBadRequest, errParentNotFolder)
			return
		}
	}

	entry := &catalog.FileEntry{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		IsPublic: req.IsPublic,
		ParentID: pid,
	}

	if req.Type == catalog.TypeFolder {
		if err := s.store.CreateFile(ctx, entry); err != nil {
			s.log.Error("create folder", "error", err)
			respondError(w, http.StatusInternalServerError, errInternal)
			return
		}
		respondJSON(w, http.StatusCreated, entry)
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		respondError(w, http.StatusBadRequest, errInvalidData)
		return
	}

	path := s.blobs.Allocate()
	if err := s.blobs.Write(ctx, path, data); err != nil {
		s.log.Error("write blob", "path", path, "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	entry.LocalPath = path
	if err := s.store.CreateFile(ctx, entry); err != nil {
		// The blob is now orphaned; log its path so it can be reaped.
		s.log.Error("create file row", "orphanedBlob", path, "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}

	if req.Type == catalog.TypeImage {
		if err := s.jobs.EnqueueThumbnail(ctx, userID, entry.ID); err != nil {
			s.log.Error("enqueue thumbnail job", "fileId", entry.ID, "error", err)
			respondError(w, http.StatusInternalServerError, errInternal)
			return
		}
	}

	respondJSON(w, http.StatusCreated, entry)
}

// ShowHandler returns an owned entry. An entry owned by someone else is
// reported as missing.
func (s *Server) ShowHandler(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.FileOwnedBy(r.Context(), chi.URLParam(r, "id"), currentUserID(r.Context()))
	if err != nil {
		s.log.Error("lookup file", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, errNotFound)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// IndexHandler lists one page (20 entries) of the caller's files under a
// parent, in insertion order.
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	parent := r.URL.Query().Get("parentId")
	if parent == "" {
		parent = catalog.RootParent
	}
	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	entries, err := s.store.ListFiles(r.Context(), currentUserID(r.Context()), parent, page)
	if err != nil {
		s.log.Error("list files", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// PublishHandler marks an owned entry public.
func (s *Server) PublishHandler(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, true)
}

// UnpublishHandler marks an owned entry private.
func (s *Server) UnpublishHandler(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, false)
}

func (s *Server) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	entry, err := s.store.SetFileVisibility(r.Context(), chi.URLParam(r, "id"), currentUserID(r.Context()), public)
	if err != nil {
		s.log.Error("update visibility", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, errNotFound)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// DownloadHandler serves blob content. Public entries need no token; private
// ones require the owner's token. With a size parameter of 100, 250 or 500
// the matching derivative is served instead of the original.
func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entry, err := s.store.FileByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("lookup file", "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, errNotFound)
		return
	}

	authorized := entry.IsPublic
	if !authorized {
		if token := r.Header.Get(TokenHeader); token != "" {
			userID, err := s.tokens.Resolve(ctx, token)
			if err == nil && userID == entry.UserID {
				authorized = true
			}
		}
	}
	if !authorized {
		respondError(w, http.StatusNotFound, errNotFound)
		return
	}

	if entry.Type == catalog.TypeFolder {
		respondError(w, http.StatusBadRequest, errFolderNoContent)
		return
	}

	path := entry.LocalPath
	switch r.URL.Query().Get("size") {
	case "100", "250", "500":
		path = fmt.Sprintf("%s_%s", path, r.URL.Query().Get("size"))
	}

	data, err := s.blobs.Read(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, errNotFound)
		return
	}
	if err != nil {
		s.log.Error("read blob", "path", path, "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(entry.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
