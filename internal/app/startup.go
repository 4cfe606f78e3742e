package app

import (
	"errors"
	"fmt"
	"os"
)

var ErrNoTempDir = errors.New("no usable temporary folder")

const noTempDirMessage = `No usable temporary folder found. Make sure TMPDIR (or TEMP on Windows) points to a valid, writable folder.`

// CheckTempDir proves the temp folder is writable by creating and
// removing a scratch file.
func CheckTempDir() error {
	dir := os.TempDir()
	f, err := os.CreateTemp(dir, AppName+"-check-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoTempDir, dir, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: %s: %v", ErrNoTempDir, dir, err)
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoTempDir, dir, err)
	}
	return nil
}

// FatalReport returns the title and body shown for a startup failure.
func FatalReport(err error) (string, string) {
	if errors.Is(err, ErrNoTempDir) {
		return "Error", noTempDirMessage + "\n\n" + err.Error()
	}
	return "Startup Error", "Please notify support of this error:\n\n" + err.Error()
}

// PanicReport formats a recovered startup panic with its stack.
func PanicReport(recovered any, stack []byte) (string, string) {
	return "Startup Error", fmt.Sprintf("Please notify support of this error:\n\n%v\n\n%s", recovered, stack)
}
