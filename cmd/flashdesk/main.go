package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"flashdesk/internal/app"
	"flashdesk/internal/cli"
	"flashdesk/internal/config"
	"flashdesk/internal/gui"
	"flashdesk/internal/logger"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(argv, stderr)
	if err != nil {
		if cli.IsHelp(err) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.ShowVersion {
		fmt.Fprintf(stdout, "%s %s\n", app.AppName, app.AppVersion)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log := cfg.Logger()

	fyneapp.SetMetadata(fyne.AppMetadata{
		ID:      app.AppID,
		Name:    app.AppName,
		Version: app.AppVersion,
	})
	fyneApp := fyneapp.NewWithID(app.AppID)

	return startup(fyneApp, cfg, opts, log, stdout)
}

// continueStartup tells startup that guarded setup finished and the event
// loop should start.
const continueStartup = -1

// reportFunc shows a fatal error window and returns once it is dismissed.
type reportFunc func(a fyne.App, title, detail string)

// startup runs everything after the GUI toolkit exists, so setup failures
// and panics can be shown to the user instead of vanishing with the
// process. Only the setup is guarded: a panic from the running event loop
// is not a startup error and crashes with the runtime's trace on stderr.
func startup(fyneApp fyne.App, cfg config.Config, opts cli.Options, log logger.Logger, stdout io.Writer) int {
	var application *app.Application
	code := guard(fyneApp, log, gui.ReportFatal, func() int {
		application = app.New(fyneApp, cfg, opts, log)

		secondary, err := application.TryBecomeSecondary()
		if err != nil {
			return fatal(fyneApp, application, log, gui.ReportFatal, err)
		}
		if secondary {
			fmt.Fprintln(stdout, "Already running; reusing existing instance.")
			application.Shutdown()
			return 0
		}

		if err := app.CheckTempDir(); err != nil {
			return fatal(fyneApp, application, log, gui.ReportFatal, err)
		}
		return continueStartup
	})
	if code != continueStartup {
		if application != nil {
			application.Shutdown()
		}
		return code
	}

	application.Run()
	return 0
}

// guard runs setup and turns a panic into a startup error report and exit
// code 1.
func guard(fyneApp fyne.App, log logger.Logger, report reportFunc, setup func() int) (code int) {
	defer func() {
		if r := recover(); r != nil {
			title, body := app.PanicReport(r, debug.Stack())
			log.Error("Main", fmt.Errorf("startup panic: %v", r), nil)
			report(fyneApp, title, body)
			code = 1
		}
	}()
	return setup()
}

func fatal(fyneApp fyne.App, application *app.Application, log logger.Logger, report reportFunc, err error) int {
	log.Error("Main", err, nil)
	application.Shutdown()
	title, body := app.FatalReport(err)
	report(fyneApp, title, body)
	return 1
}

func loadConfig(opts cli.Options) (config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath, true)
	}
	base := opts.Base
	if base == "" {
		base = config.DefaultBase()
	}
	return config.Load(config.DefaultPath(base), false)
}
