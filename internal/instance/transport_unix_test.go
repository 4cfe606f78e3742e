//go:build !windows

package instance

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flashdesk/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannelPrefersRuntimeDir(t *testing.T) {
	runtimeDir := socketDir(t)
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	ch := NewChannel(DefaultTag, "alice", "")
	assert.Equal(t, runtimeDir, ch.Dir)
	assert.Equal(t, filepath.Join(runtimeDir, ch.Name+".sock"), ch.Address())

	explicit := socketDir(t)
	assert.Equal(t, explicit, NewChannel(DefaultTag, "alice", explicit).Dir)
}

func TestNewChannelFallsBackToTempDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Equal(t, os.TempDir(), NewChannel(DefaultTag, "alice", "").Dir)

	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(socketDir(t), "missing"))
	assert.Equal(t, os.TempDir(), NewChannel(DefaultTag, "alice", "").Dir)
}

func TestStaleSocketFileIsReplaced(t *testing.T) {
	opts := testOptions(t, "alice")
	require.NoError(t, os.WriteFile(opts.Channel.Address(), []byte("stale"), 0o600))

	c := newOwner(t, opts, &recorder{})
	secondary, err := c.TryBecomeSecondary(nil)
	require.NoError(t, err)
	assert.False(t, secondary)
	assert.True(t, c.IsOwner())
}

func TestShutdownRemovesSocketFile(t *testing.T) {
	opts := testOptions(t, "alice")
	owner := NewCoordinator(opts, nil, logger.Nop())

	_, err := owner.TryBecomeSecondary(nil)
	require.NoError(t, err)
	_, err = os.Stat(opts.Channel.Address())
	require.NoError(t, err)

	owner.Shutdown()
	_, err = os.Stat(opts.Channel.Address())
	assert.True(t, os.IsNotExist(err))
}

// hungOwner accepts connections and never reads from them.
func hungOwner(t *testing.T, ch Channel) {
	t.Helper()
	ln, err := net.Listen(network, ch.Address())
	require.NoError(t, err)

	var conns []net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		<-done
		for _, conn := range conns {
			conn.Close()
		}
	})
}

func TestSendReportsHungOwner(t *testing.T) {
	ch := NewChannel(DefaultTag, "alice", socketDir(t))
	hungOwner(t, ch)

	// Large enough to overrun the socket buffers of a peer that never reads.
	payload := strings.Repeat("x", 16<<20)
	err := Send(ch, payload, time.Second, 100*time.Millisecond)
	assert.ErrorIs(t, err, ErrOwnerHung)
}

func TestHungOwnerLosesChannelToNewcomer(t *testing.T) {
	opts := testOptions(t, "alice")
	hungOwner(t, opts.Channel)

	rec := &recorder{}
	c := newOwner(t, opts, rec)
	c.send = func(ch Channel, payload string, connectTimeout, _ time.Duration) error {
		// reach the hung owner for real, then report the write that never finished
		conn, err := dial(ch, connectTimeout)
		require.NoError(t, err)
		conn.Close()
		return ErrOwnerHung
	}

	secondary, err := c.TryBecomeSecondary([]string{"/decks/a.apkg"})
	require.NoError(t, err)
	assert.False(t, secondary)
	assert.True(t, c.IsOwner())

	// the socket path now leads to the newcomer, not the hung owner
	require.NoError(t, Send(opts.Channel, "/decks/b.apkg", time.Second, time.Second))
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "/decks/b.apkg", rec.snapshot()[0].Arg)
}
