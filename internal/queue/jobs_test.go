package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewThumbnailTask(t *testing.T) {
	task, err := NewThumbnailTask("user-1", "file-1")
	require.NoError(t, err)
	require.Equal(t, TaskThumbnail, task.Type())

	var payload ThumbnailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "user-1", payload.UserID)
	require.Equal(t, "file-1", payload.FileID)
}

func TestNewWelcomeTask(t *testing.T) {
	task, err := NewWelcomeTask("user-2")
	require.NoError(t, err)
	require.Equal(t, TaskWelcome, task.Type())

	var payload WelcomePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "user-2", payload.UserID)
}
