package latch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLatch(t *testing.T) {
	var l Latch
	require.False(t, l.Value())
	l.Set()
	require.True(t, l.Value())
	l.Set()
	require.True(t, l.Value())
	l.Flip()
	require.False(t, l.Value())
	l.Flip()
	require.True(t, l.Value())
	l.Reset()
	require.False(t, l.Value())
}
