package api

import (
	"context"
	"errors"
	"sync"

	"filedepot/internal/catalog"
)

// fakeCatalog is an in-memory Catalog keeping files in insertion order so
// listing pages are deterministic.
type fakeCatalog struct {
	mu    sync.Mutex
	users map[string]*catalog.User
	files []*catalog.FileEntry
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{users: make(map[string]*catalog.User)}
}

func (f *fakeCatalog) CreateUser(_ context.Context, u *catalog.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return catalog.ErrEmailTaken
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeCatalog) UserByEmail(_ context.Context, email string) (*catalog.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) UserByID(_ context.Context, id string) (*catalog.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCatalog) CountUsers(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeCatalog) CreateFile(_ context.Context, e *catalog.FileEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.files = append(f.files, &cp)
	return nil
}

func (f *fakeCatalog) FileByID(_ context.Context, id string) (*catalog.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.files {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) FileOwnedBy(_ context.Context, id, userID string) (*catalog.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.files {
		if e.ID == id && e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) ListFiles(_ context.Context, userID, parentID string, page int) ([]catalog.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]catalog.FileEntry, 0)
	for _, e := range f.files {
		if e.UserID == userID && e.ParentID == parentID {
			matched = append(matched, *e)
		}
	}
	start := page * catalog.PageSize
	if start >= len(matched) {
		return []catalog.FileEntry{}, nil
	}
	end := start + catalog.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (f *fakeCatalog) SetFileVisibility(_ context.Context, id, userID string, public bool) (*catalog.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.files {
		if e.ID == id && e.UserID == userID {
			e.IsPublic = public
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) CountFiles(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.files)), nil
}

func (f *fakeCatalog) Ping(context.Context) error { return nil }

// fakeTokens maps tokens to user ids without expiry.
type fakeTokens struct {
	mu     sync.Mutex
	next   string
	byTok  map[string]string
	broken bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byTok: make(map[string]string)}
}

func (f *fakeTokens) Issue(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok := f.next
	if tok == "" {
		tok = "tok-" + userID
	}
	f.byTok[tok] = userID
	return tok, nil
}

func (f *fakeTokens) Resolve(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return "", errors.New("redis down")
	}
	return f.byTok[token], nil
}

func (f *fakeTokens) Revoke(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byTok[token]; !ok {
		return false, nil
	}
	delete(f.byTok, token)
	return true, nil
}

func (f *fakeTokens) Ping(context.Context) error { return nil }

type enqueued struct {
	kind   string
	userID string
	fileID string
}

// fakeJobs records enqueued jobs instead of touching redis.
type fakeJobs struct {
	mu   sync.Mutex
	jobs []enqueued
	fail bool
}

func (f *fakeJobs) EnqueueThumbnail(_ context.Context, userID, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("queue down")
	}
	f.jobs = append(f.jobs, enqueued{kind: "thumbnail", userID: userID, fileID: fileID})
	return nil
}

func (f *fakeJobs) EnqueueWelcome(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("queue down")
	}
	f.jobs = append(f.jobs, enqueued{kind: "welcome", userID: userID})
	return nil
}
