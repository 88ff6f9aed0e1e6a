package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyFormat(t *testing.T) {
	require.Equal(t, "auth_abc", key("abc"))
}
