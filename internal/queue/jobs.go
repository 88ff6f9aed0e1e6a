// Package queue defines the asynq tasks exchanged between the API server and
// the worker, split over two lanes: "file" for thumbnail generation and
// "user" for welcome notifications.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names.
const (
	TaskThumbnail = "file:thumbnail"
	TaskWelcome   = "user:welcome"
)

// Queue lane names.
const (
	LaneFile = "file"
	LaneUser = "user"
)

const maxRetry = 5

// ThumbnailPayload identifies the image entry to derive thumbnails from. The
// worker re-checks ownership with the (fileId, userId) pair.
type ThumbnailPayload struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// WelcomePayload identifies a freshly registered account.
type WelcomePayload struct {
	UserID string `json:"userId"`
}

// NewThumbnailTask builds the asynq task for a thumbnail job.
func NewThumbnailTask(userID, fileID string) (*asynq.Task, error) {
	data, err := json.Marshal(ThumbnailPayload{UserID: userID, FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("marshal thumbnail payload: %w", err)
	}
	return asynq.NewTask(TaskThumbnail, data), nil
}

// NewWelcomeTask builds the asynq task for a welcome job.
func NewWelcomeTask(userID string) (*asynq.Task, error) {
	data, err := json.Marshal(WelcomePayload{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("marshal welcome payload: %w", err)
	}
	return asynq.NewTask(TaskWelcome, data), nil
}

// Client wraps an asynq client behind the two enqueue operations producers
// need.
type Client struct {
	inner *asynq.Client
}

// NewClient connects a producer to redis.
func NewClient(opt asynq.RedisClientOpt) *Client {
	return &Client{inner: asynq.NewClient(opt)}
}

// EnqueueThumbnail pushes a thumbnail job onto the file lane.
func (c *Client) EnqueueThumbnail(ctx context.Context, userID, fileID string) error {
	task, err := NewThumbnailTask(userID, fileID)
	if err != nil {
		return err
	}
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.Queue(LaneFile), asynq.MaxRetry(maxRetry)); err != nil {
		return fmt.Errorf("enqueue thumbnail task: %w", err)
	}
	return nil
}

// EnqueueWelcome pushes a welcome job onto the user lane.
func (c *Client) EnqueueWelcome(ctx context.Context, userID string) error {
	task, err := NewWelcomeTask(userID)
	if err != nil {
		return err
	}
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.Queue(LaneUser), asynq.MaxRetry(maxRetry)); err != nil {
		return fmt.Errorf("enqueue welcome task: %w", err)
	}
	return nil
}

// Close releases the underlying redis connection.
func (c *Client) Close() error {
	return c.inner.Close()
}
