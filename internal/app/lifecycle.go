package app

import (
	"flashdesk/internal/dialogs"
	"flashdesk/internal/logger"
	"flashdesk/internal/shutdown"
)

// Lifecycle decides whether the owner may quit and then tears it down.
type Lifecycle struct {
	dialogs  *dialogs.Registry
	shutdown *shutdown.Manager
	logger   logger.Logger
}

func NewLifecycle(registry *dialogs.Registry, sm *shutdown.Manager, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		dialogs:  registry,
		shutdown: sm,
		logger:   log,
	}
}

// Quit closes all dialogs and shuts down. It reports false, leaving the
// process running, when a dialog vetoes.
func (l *Lifecycle) Quit() bool {
	if !l.dialogs.CloseAll() {
		l.logger.Info("Lifecycle", "quit vetoed by an open dialog", nil)
		return false
	}

	l.logger.Info("Lifecycle", "shutdown sequence initiated", nil)
	l.shutdown.Shutdown()
	return true
}
