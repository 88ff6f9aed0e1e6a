// Package catalog contains the metadata model and its postgres persistence.
package catalog

import "time"

// Entry types stored in the files table.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// RootParent is the wire value marking an entry that lives at the root of a
// user's tree. It is stored as a NULL parent_id.
const RootParent = "0"

// User is an account record. Created on registration, immutable afterwards.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// FileEntry is a row in the files table: a folder, a plain file, or an image.
// LocalPath references the blob in storage and is never serialized; folders
// carry no LocalPath at all.
type FileEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsPublic  bool      `json:"isPublic"`
	ParentID  string    `json:"parentId"`
	LocalPath string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// ValidType reports whether t is one of the three entry types.
func ValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

func parentToColumn(parentID string) *string {
	if parentID == "" || parentID == RootParent {
		return nil
	}
	p := parentID
	return &p
}

func parentFromColumn(col *string) string {
	if col == nil {
		return RootParent
	}
	return *col
}
