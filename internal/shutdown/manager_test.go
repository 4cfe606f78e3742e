package shutdown

import (
	"sync"
	"testing"
	"time"

	"flashdesk/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRunsComponentsInReverseOnce(t *testing.T) {
	m := NewManager(logger.Nop(), time.Second)

	var mu sync.Mutex
	var order []string
	record := func(name string) Func {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	m.Register("coordinator", record("coordinator"))
	m.Register("ui", record("ui"))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"ui", "coordinator"}, order)
	assert.Error(t, m.Context().Err())
	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownGivesUpOnStuckComponent(t *testing.T) {
	m := NewManager(logger.Nop(), 20*time.Millisecond)

	release := make(chan struct{})
	defer close(release)
	ran := false
	m.Register("first", Func(func() { ran = true }))
	m.Register("stuck", Func(func() { <-release }))

	start := time.Now()
	m.Shutdown()
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, ran)
}

func TestListenStopsWithShutdown(t *testing.T) {
	m := NewManager(logger.Nop(), time.Second)
	m.Listen()
	m.Shutdown()

	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("shutdown did not complete")
	}
}
