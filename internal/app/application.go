// Package app wires the owner process: the fyne application, its main
// window, the dialog registry and the single-instance coordinator.
package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"

	"flashdesk/internal/cli"
	"flashdesk/internal/config"
	"flashdesk/internal/dialogs"
	"flashdesk/internal/gui"
	"flashdesk/internal/instance"
	"flashdesk/internal/logger"
	"flashdesk/internal/shutdown"
)

const (
	AppName    = "flashdesk"
	AppID      = "net.flashdesk.desktop"
	AppVersion = "1.0.0"

	shutdownTimeout = 10 * time.Second
)

// Application is built once at startup and handed to whatever needs the
// process-wide state.
type Application struct {
	fyneApp     fyne.App
	main        *gui.MainWindow
	dialogs     *dialogs.Registry
	coordinator *instance.Coordinator
	shutdown    *shutdown.Manager
	lifecycle   *Lifecycle
	logger      logger.Logger
	opts        cli.Options
	running     atomic.Bool
}

func New(fyneApp fyne.App, cfg config.Config, opts cli.Options, log logger.Logger) *Application {
	a := &Application{
		fyneApp: fyneApp,
		logger:  log,
		opts:    opts,
	}

	a.dialogs = dialogs.New(gui.Factories(fyneApp, gui.AboutInfo{
		Name:    AppName,
		Version: AppVersion,
	}, a.forgetDialog))
	a.main = gui.NewMainWindow(fyneApp, AppName, a.OpenDialog)

	instanceOpts := cfg.InstanceOptions(instance.CurrentUser())
	a.coordinator = instance.NewCoordinator(instanceOpts, a.handleMessage, log)

	a.shutdown = shutdown.NewManager(log, shutdownTimeout)
	a.shutdown.Register("coordinator", a.coordinator)
	a.lifecycle = NewLifecycle(a.dialogs, a.shutdown, log)

	log.Info("Application", "initialized", map[string]interface{}{
		"version": AppVersion,
		"base":    opts.Base,
		"profile": opts.Profile,
		"lang":    opts.Lang,
		"channel": instanceOpts.Channel.Address(),
	})
	return a
}

// TryBecomeSecondary hands this launch to a running owner if there is one.
func (a *Application) TryBecomeSecondary() (bool, error) {
	secondary, err := a.coordinator.TryBecomeSecondary(a.opts.Positional)
	if err != nil {
		return false, fmt.Errorf("single instance: %w", err)
	}
	return secondary, nil
}

// Run shows the main window and blocks in the fyne event loop.
func (a *Application) Run() {
	a.shutdown.Register("ui", shutdown.Func(func() {
		if a.running.Load() {
			go fyne.Do(a.fyneApp.Quit)
		}
	}))
	a.shutdown.Listen()

	a.main.Window().SetCloseIntercept(a.RequestQuit)

	if arg := instance.RepresentativeArg(a.opts.Positional); arg != instance.RaiseArg {
		a.main.QueueImport(arg)
	}

	a.logger.Info("Application", "starting UI", nil)
	a.running.Store(true)
	a.main.Window().ShowAndRun()
	a.running.Store(false)

	// Window closed by the platform rather than through RequestQuit.
	a.shutdown.Shutdown()
}

// RequestQuit closes every dialog and quits, unless a dialog vetoes.
func (a *Application) RequestQuit() {
	if !a.lifecycle.Quit() {
		a.main.SetStatus("Close or save the open windows first.")
		return
	}
	a.main.Window().Close()
}

// Shutdown releases the channel without running the UI, for startup
// failures after ownership was taken.
func (a *Application) Shutdown() {
	a.shutdown.Shutdown()
}

// OpenDialog opens or raises the named modeless dialog.
func (a *Application) OpenDialog(name string) {
	a.dialogs.Open(name)
}

func (a *Application) Dialogs() *dialogs.Registry {
	return a.dialogs
}

func (a *Application) MainWindow() *gui.MainWindow {
	return a.main
}

// OpenFile is the hook for the OS "open file" event delivered to a
// running app; it joins the channel messages on one handler.
func (a *Application) OpenFile(path string) {
	a.coordinator.DeliverFileOpen(path)
}

func (a *Application) forgetDialog(name string, d dialogs.Dialog) {
	a.dialogs.CloseIf(name, d)
}

func (a *Application) handleMessage(msg instance.Message) {
	fyne.Do(func() {
		a.onLaunchMessage(msg)
	})
}

func (a *Application) onLaunchMessage(msg instance.Message) {
	a.logger.Info("Application", "launch message received", map[string]interface{}{
		"arg":    msg.Arg,
		"source": msg.Source.String(),
	})

	if !msg.IsRaise() {
		a.main.QueueImport(msg.Arg)
	}
	a.main.Raise()
}
