package instance

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"strings"
)

const DefaultTag = "flashdesk"

// Channel is the well-known local address a user's owner process binds.
type Channel struct {
	Name string
	Dir  string
}

// ChannelName derives the channel name for user. Same user, same name;
// different users never share one.
func ChannelName(tag, user string) string {
	sum := sha1.Sum([]byte(user))
	return tag + hex.EncodeToString(sum[:])
}

// NewChannel places the socket under dir. An empty dir means
// $XDG_RUNTIME_DIR when it exists, else os.TempDir().
func NewChannel(tag, user, dir string) Channel {
	if dir == "" {
		dir = defaultDir()
	}
	return Channel{Name: ChannelName(tag, user), Dir: dir}
}

// Validate reports an address the platform cannot bind, such as a socket
// path longer than sun_path.
func (c Channel) Validate() error {
	if n := len(c.Address()); n > maxAddressLen {
		return fmt.Errorf("channel address %q is %d bytes, limit is %d", c.Address(), n, maxAddressLen)
	}
	return nil
}

// CurrentUser returns the OS login name of this process.
func CurrentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "unknown"
}
