//go:build !windows

package instance

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const network = "unix"

// maxAddressLen is the room in sockaddr_un.sun_path, less the trailing NUL.
var maxAddressLen = func() int {
	switch runtime.GOOS {
	case "darwin", "ios", "freebsd", "openbsd", "netbsd", "dragonfly":
		return 103
	}
	return 107
}()

// defaultDir prefers the per-user runtime dir over the shared temp dir.
func defaultDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return os.TempDir()
}

// Address is the socket path used both to bind and to dial.
func (c Channel) Address() string {
	return filepath.Join(c.Dir, c.Name+".sock")
}

func dial(ch Channel, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, ch.Address(), timeout)
}

// listen removes any socket file left by a dead owner before binding.
func listen(ch Channel) (net.Listener, error) {
	if err := release(ch); err != nil {
		return nil, fmt.Errorf("remove stale channel %s: %w", ch.Address(), err)
	}
	return net.Listen(network, ch.Address())
}

func release(ch Channel) error {
	if err := os.Remove(ch.Address()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
