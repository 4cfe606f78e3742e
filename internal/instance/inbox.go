package instance

import (
	"context"
	"sync"
)

// Handler receives launch messages one at a time, in arrival order.
type Handler func(Message)

// Inbox funnels messages from the channel server and the file-open event
// into a single handler running on one worker goroutine.
type Inbox struct {
	handler Handler
	buffer  chan Message
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

func NewInbox(bufferSize int, handler Handler) *Inbox {
	ctx, cancel := context.WithCancel(context.Background())

	inbox := &Inbox{
		handler: handler,
		buffer:  make(chan Message, bufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	inbox.startWorker()
	return inbox
}

// Post queues msg for the handler. It reports false once the inbox is shut down.
func (i *Inbox) Post(msg Message) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return false
	}

	select {
	case i.buffer <- msg:
		return true
	case <-i.ctx.Done():
		return false
	}
}

// Shutdown delivers whatever is already queued, then stops the worker.
func (i *Inbox) Shutdown() {
	i.cancel()
	i.wg.Wait()
}

func (i *Inbox) startWorker() {
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()

		for {
			select {
			case msg := <-i.buffer:
				i.deliver(msg)
			case <-i.ctx.Done():
				// Wait out in-flight posts so nothing lands after the drain.
				i.mu.Lock()
				i.closed = true
				i.mu.Unlock()
				for {
					select {
					case msg := <-i.buffer:
						i.deliver(msg)
					default:
						return
					}
				}
			}
		}
	}()
}

func (i *Inbox) deliver(msg Message) {
	if i.handler != nil {
		i.handler(msg)
	}
}
