//go:build windows

package instance

import (
	"net"
	"time"

	winio "github.com/Microsoft/go-winio"
)

const pipePrefix = `\\.\pipe\`

// maxAddressLen is the Win32 limit on a pipe name.
const maxAddressLen = 256

// defaultDir is unused: named pipes live in their own namespace.
func defaultDir() string {
	return ""
}

// Address is the named pipe both sides open. Dir plays no part on Windows.
func (c Channel) Address() string {
	return pipePrefix + c.Name
}

func dial(ch Channel, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(ch.Address(), &timeout)
}

// listen needs no stale cleanup: a pipe vanishes with the last handle to it.
func listen(ch Channel) (net.Listener, error) {
	return winio.ListenPipe(ch.Address(), nil)
}

func release(Channel) error {
	return nil
}
