package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PageSize is the fixed number of entries returned per listing page.
const PageSize = 20

// ErrEmailTaken is returned by CreateUser when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// Store wraps all SQL used by the API handlers and the worker. Lookups that
// find no row return (nil, nil) so callers can map absence to their own
// error taxonomy.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store on top of a pgx pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping reports whether the document store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateUser inserts a new account. The caller supplies id and password hash.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	u.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1,$2,$3,$4)
	`, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByEmail returns the account registered under email, or nil.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email=$1
	`, email))
}

// UserByID returns the account with the given id, or nil.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE id=$1
	`, id))
}

// CountUsers returns the total number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CreateFile inserts a catalog row.
func (s *Store) CreateFile(ctx context.Context, f *FileEntry) error {
	f.CreatedAt = time.Now().UTC()
	var localPath *string
	if f.LocalPath != "" {
		localPath = &f.LocalPath
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO files (id, user_id, name, type, is_public, parent_id, local_path, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, f.ID, f.UserID, f.Name, f.Type, f.IsPublic, parentToColumn(f.ParentID), localPath, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// FileByID returns the entry regardless of owner, or nil.
func (s *Store) FileByID(ctx context.Context, id string) (*FileEntry, error) {
	return s.scanFile(s.pool.QueryRow(ctx, fileSelect+` WHERE id=$1`, id))
}

// FileOwnedBy returns the entry only when it belongs to userID, or nil. An
// entry owned by someone else is indistinguishable from a missing one.
func (s *Store) FileOwnedBy(ctx context.Context, id, userID string) (*FileEntry, error) {
	return s.scanFile(s.pool.QueryRow(ctx, fileSelect+` WHERE id=$1 AND user_id=$2`, id, userID))
}

// ListFiles returns one page of userID's entries under parentID in insertion
// order. parentID equal to RootParent selects the root level.
func (s *Store) ListFiles(ctx context.Context, userID, parentID string, page int) ([]FileEntry, error) {
	if page < 0 {
		page = 0
	}
	rows, err := s.pool.Query(ctx, fileSelect+`
		WHERE user_id=$1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`, userID, parentToColumn(parentID), PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	entries := make([]FileEntry, 0, PageSize)
	for rows.Next() {
		f, err := s.scanFileRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *f)
	}
	return entries, rows.Err()
}

// SetFileVisibility atomically updates isPublic on an owned entry and returns
// the updated row, or nil when the entry is absent or owned by someone else.
func (s *Store) SetFileVisibility(ctx context.Context, id, userID string, public bool) (*FileEntry, error) {
	return s.scanFile(s.pool.QueryRow(ctx, `
		UPDATE files SET is_public=$1 WHERE id=$2 AND user_id=$3
		RETURNING id, user_id, name, type, is_public, parent_id, local_path, created_at
	`, public, id, userID))
}

// CountFiles returns the total number of catalog entries.
func (s *Store) CountFiles(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return n, nil
}

const fileSelect = `
	SELECT id, user_id, name, type, is_public, parent_id, local_path, created_at FROM files`

func (s *Store) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (s *Store) scanFile(row pgx.Row) (*FileEntry, error) {
	f, err := s.scanFileRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (s *Store) scanFileRow(row pgx.Row) (*FileEntry, error) {
	var (
		f         FileEntry
		parentID  *string
		localPath *string
	)
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic, &parentID, &localPath, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.ParentID = parentFromColumn(parentID)
	if localPath != nil {
		f.LocalPath = *localPath
	}
	return &f, nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
