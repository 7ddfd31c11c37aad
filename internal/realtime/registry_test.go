package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get(7)
	require.False(t, ok)

	conn := &fakeConn{}
	r.Register(7, conn)

	got, ok := r.Get(7)
	require.True(t, ok)
	require.Same(t, conn, got.(*fakeConn))

	r.Unregister(7, conn)
	_, ok = r.Get(7)
	require.False(t, ok)
}

func TestRegistryUnregisterIgnoresReplacedConn(t *testing.T) {
	r := NewRegistry()

	stale := &fakeConn{}
	fresh := &fakeConn{}
	r.Register(7, stale)
	r.Register(7, fresh)

	// The stale socket's deferred cleanup must not evict the reconnect.
	r.Unregister(7, stale)

	got, ok := r.Get(7)
	require.True(t, ok)
	require.Same(t, fresh, got.(*fakeConn))
}
