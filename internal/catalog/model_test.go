package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidType(t *testing.T) {
	require.True(t, ValidType(TypeFolder))
	require.True(t, ValidType(TypeFile))
	require.True(t, ValidType(TypeImage))
	require.False(t, ValidType(""))
	require.False(t, ValidType("directory"))
}

func TestParentColumnMapping(t *testing.T) {
	require.Nil(t, parentToColumn(RootParent))
	require.Nil(t, parentToColumn(""))

	col := parentToColumn("abc-123")
	require.NotNil(t, col)
	require.Equal(t, "abc-123", *col)

	require.Equal(t, RootParent, parentFromColumn(nil))
	require.Equal(t, "abc-123", parentFromColumn(col))
}
