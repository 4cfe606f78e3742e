// Package instance keeps one owner process per user. Later launches hand
// their argument to the owner over a unix-domain socket (a named pipe on
// Windows) and exit.
package instance

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"flashdesk/internal/logger"
)

const inboxSize = 16

type Options struct {
	Channel        Channel
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
}

// Coordinator makes the owner/secondary decision and, once this process
// owns the channel, routes every launch message to one handler.
type Coordinator struct {
	opts   Options
	logger logger.Logger
	inbox  *Inbox
	send   func(ch Channel, payload string, connectTimeout, writeTimeout time.Duration) error

	mu     sync.Mutex
	server *Server
}

func NewCoordinator(opts Options, handler Handler, log logger.Logger) *Coordinator {
	return &Coordinator{
		opts:   opts,
		logger: log,
		inbox:  NewInbox(inboxSize, handler),
		send:   Send,
	}
}

// TryBecomeSecondary reports true when an owner took this launch's
// argument; the caller should exit. Otherwise this process now owns the
// channel and keeps serving it until Shutdown.
//
// A write timeout after a successful connect is treated like a dead
// owner: this process binds the channel too. A slow but live owner can
// therefore lose its channel to the newcomer.
func (c *Coordinator) TryBecomeSecondary(positional []string) (bool, error) {
	arg := RepresentativeArg(positional)
	fields := map[string]interface{}{
		"channel": c.opts.Channel.Name,
		"arg":     arg,
	}

	err := c.send(c.opts.Channel, arg, c.opts.ConnectTimeout, c.opts.WriteTimeout)
	switch {
	case err == nil:
		c.logger.Info("Coordinator", "already running; reusing existing instance", fields)
		return true, nil
	case errors.Is(err, ErrOwnerHung):
		c.logger.Warning("Coordinator", "existing instance running but hung", fields)
	default:
		c.logger.Debug("Coordinator", "no owner reachable", fields)
	}

	if err := c.becomeOwner(); err != nil {
		return false, err
	}
	return false, nil
}

func (c *Coordinator) becomeOwner() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.server != nil {
		return nil
	}

	srv, err := Listen(c.opts.Channel, c.opts.ReadTimeout, c.inbox.Post, c.logger)
	if err != nil {
		return fmt.Errorf("become owner: %w", err)
	}
	c.server = srv
	return nil
}

// IsOwner reports whether this process holds the channel.
func (c *Coordinator) IsOwner() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.server != nil
}

// DeliverFileOpen feeds an OS "open file" event into the same handler as
// channel messages. An empty path means raise.
func (c *Coordinator) DeliverFileOpen(path string) {
	if path == "" {
		path = RaiseArg
	}
	if !c.inbox.Post(Message{Arg: path, Source: SourceFileOpen}) {
		c.logger.Warning("Coordinator", "file-open event dropped during shutdown", map[string]interface{}{
			"path": path,
		})
	}
}

// Shutdown releases the channel and drains pending messages.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	srv := c.server
	c.server = nil
	c.mu.Unlock()

	if srv != nil {
		if err := srv.Close(); err != nil {
			c.logger.Error("Coordinator", fmt.Errorf("close channel: %w", err), nil)
		}
	}
	c.inbox.Shutdown()
	c.logger.Debug("Coordinator", "shutdown complete", nil)
}
