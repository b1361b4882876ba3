package testdata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministicAndValid(t *testing.T) {
	a := Generate(42, 50, 6)
	b := Generate(42, 50, 6)
	require.Equal(t, a, b)
	require.Len(t, a.Users, 50)
	require.NoError(t, a.Validate())

	for _, o := range a.Orders {
		require.GreaterOrEqual(t, o.UserID, int64(1))
		require.LessOrEqual(t, o.UserID, int64(50))
		require.GreaterOrEqual(t, o.Total, 5.0)
		require.LessOrEqual(t, o.Total, 2000.0)
	}

	empty := Generate(1, 3, 0)
	require.Len(t, empty.Users, 3)
	require.Empty(t, empty.Orders)
}
