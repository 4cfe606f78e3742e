package instance

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
	"unicode/utf8"

	"flashdesk/internal/logger"
)

const (
	// settleTime bounds how long the server waits for more bytes once a
	// message has started arriving; clients that never close still get
	// their message delivered promptly.
	settleTime = 50 * time.Millisecond
	maxPayload = 64 << 10

	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

var (
	errEmptyPayload   = errors.New("connection closed without payload")
	errInvalidPayload = errors.New("payload is not valid UTF-8")
	errLargePayload   = errors.New("payload exceeds size limit")
)

// Server accepts launch messages on a channel until it is closed.
type Server struct {
	channel     Channel
	listener    net.Listener
	readTimeout time.Duration
	post        func(Message) bool
	logger      logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Listen removes any stale socket left by a dead owner, binds ch and
// starts accepting connections.
func Listen(ch Channel, readTimeout time.Duration, post func(Message) bool, log logger.Logger) (*Server, error) {
	ln, err := listen(ch)
	if err != nil {
		return nil, fmt.Errorf("listen on channel %s: %w", ch.Address(), err)
	}

	s := serve(ch, ln, readTimeout, post, log)
	log.Info("Server", "listening for launch messages", map[string]interface{}{
		"address": ch.Address(),
	})
	return s, nil
}

func serve(ch Channel, ln net.Listener, readTimeout time.Duration, post func(Message) bool, log logger.Logger) *Server {
	s := &Server{
		channel:     ch,
		listener:    ln,
		readTimeout: readTimeout,
		post:        post,
		logger:      log,
	}

	s.wg.Add(1)
	go s.acceptLoop()
	return s
}

func (s *Server) Addr() string {
	return s.channel.Address()
}

// Close stops accepting, waits for in-flight connections and removes the
// socket file. Safe to call more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.listener.Close()
	s.wg.Wait()

	if rmErr := release(s.channel); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// acceptLoop backs off on repeated accept errors, the way net/http does,
// so a persistent failure such as EMFILE does not spin the CPU.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	var delay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return
			}
			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.logger.Error("Server", fmt.Errorf("accept: %w", err), map[string]interface{}{
				"retry_in": delay.String(),
			})
			time.Sleep(delay)
			continue
		}
		delay = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	payload, err := s.readPayload(conn)
	if err != nil {
		s.logger.Error("Server", err, map[string]interface{}{
			"address": s.channel.Address(),
		})
		return
	}

	if !s.post(Message{Arg: payload, Source: SourceChannel}) {
		s.logger.Warning("Server", "launch message dropped during shutdown", map[string]interface{}{
			"arg": payload,
		})
	}
}

// readPayload waits up to the read timeout for the first bytes. Once data
// arrives it keeps reading until the client closes or settleTime passes
// without more, never beyond the read timeout. Bytes received before a
// timeout still count as a message.
func (s *Server) readPayload(conn net.Conn) (string, error) {
	deadline := time.Now().Add(s.readTimeout)
	if err := conn.SetReadDeadline(deadline); err != nil {
		return "", fmt.Errorf("set read deadline: %w", err)
	}

	var data []byte
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		data = append(data, buf[:n]...)
		if len(data) > maxPayload {
			return "", errLargePayload
		}
		if err != nil {
			var netErr net.Error
			if errors.Is(err, io.EOF) || (errors.As(err, &netErr) && netErr.Timeout() && len(data) > 0) {
				break
			}
			return "", fmt.Errorf("read launch message: %w", err)
		}
		if n > 0 {
			settle := time.Now().Add(settleTime)
			if settle.After(deadline) {
				settle = deadline
			}
			if err := conn.SetReadDeadline(settle); err != nil {
				return "", fmt.Errorf("set read deadline: %w", err)
			}
		}
	}

	if len(data) == 0 {
		return "", errEmptyPayload
	}
	if !utf8.Valid(data) {
		return "", errInvalidPayload
	}
	return string(data), nil
}
