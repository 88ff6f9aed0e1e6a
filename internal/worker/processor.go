// Package worker consumes the file and user lanes. Jobs are delivered
// at-least-once; validation failures are marked fatal with asynq.SkipRetry
// while transient store errors fall through to asynq's retry policy.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"filedepot/internal/catalog"
	"filedepot/internal/queue"
	"filedepot/internal/storage"
	"filedepot/internal/thumbnail"
)

// Catalog is the slice of the metadata store the worker needs.
type Catalog interface {
	FileOwnedBy(ctx context.Context, id, userID string) (*catalog.FileEntry, error)
	UserByID(ctx context.Context, id string) (*catalog.User, error)
}

// Processor is plugged into the asynq worker loop.
type Processor struct {
	store Catalog
	blobs storage.BlobStore
	log   *slog.Logger
}

// NewProcessor constructs a worker processor.
func NewProcessor(store Catalog, blobs storage.BlobStore, log *slog.Logger) *Processor {
	return &Processor{store: store, blobs: blobs, log: log}
}

// Handler registers both lane handlers.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskThumbnail, p.handleThumbnail)
	mux.HandleFunc(queue.TaskWelcome, p.handleWelcome)
	return mux
}

func (p *Processor) handleThumbnail(ctx context.Context, task *asynq.Task) error {
	var payload queue.ThumbnailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode thumbnail payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.FileID == "" {
		return fmt.Errorf("missing fileId: %w", asynq.SkipRetry)
	}
	if payload.UserID == "" {
		return fmt.Errorf("missing userId: %w", asynq.SkipRetry)
	}

	entry, err := p.store.FileOwnedBy(ctx, payload.FileID, payload.UserID)
	if err != nil {
		return fmt.Errorf("load file %s: %w", payload.FileID, err)
	}
	if entry == nil {
		return fmt.Errorf("file %s not found: %w", payload.FileID, asynq.SkipRetry)
	}
	if entry.Type != catalog.TypeImage {
		return fmt.Errorf("file %s is not an image: %w", payload.FileID, asynq.SkipRetry)
	}

	src, err := p.blobs.Read(ctx, entry.LocalPath)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("file %s not found on storage: %w", payload.FileID, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("read source blob: %w", err)
	}

	// One size failing must not abort the others; derivatives are
	// best-effort per size.
	for _, width := range thumbnail.Widths {
		variant, err := thumbnail.Generate(src, width)
		if err != nil {
			p.log.Error("generate thumbnail", "fileId", entry.ID, "width", width, "error", err)
			continue
		}
		path := fmt.Sprintf("%s_%d", entry.LocalPath, width)
		if err := p.blobs.Write(ctx, path, variant); err != nil {
			p.log.Error("write thumbnail", "fileId", entry.ID, "path", path, "error", err)
			continue
		}
		p.log.Info("generated thumbnail", "fileId", entry.ID, "path", path)
	}
	return nil
}

func (p *Processor) handleWelcome(ctx context.Context, task *asynq.Task) error {
	var payload queue.WelcomePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode welcome payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.UserID == "" {
		return fmt.Errorf("missing userId: %w", asynq.SkipRetry)
	}

	user, err := p.store.UserByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("load user %s: %w", payload.UserID, err)
	}
	if user == nil {
		return fmt.Errorf("user %s not found: %w", payload.UserID, asynq.SkipRetry)
	}

	p.log.Info(fmt.Sprintf("Welcome %s!", user.Email), "userId", user.ID)
	return nil
}
