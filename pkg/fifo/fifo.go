// pkg/fifo/fifo.go

// Package fifo manages the named pipe the screen-capture pipeline
// writes into and the renderer reads from.
package fifo

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Ensure creates the FIFO at path if it is absent. An existing FIFO is
// left untouched; a regular file squatting on the path is an error
// rather than something to silently replace.
func Ensure(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.Mode()&os.ModeNamedPipe == 0 {
			return fmt.Errorf("%s exists but is not a named pipe", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := unix.Mkfifo(path, 0o666); err != nil {
		return fmt.Errorf("creating fifo %s: %w", path, err)
	}
	return nil
}
