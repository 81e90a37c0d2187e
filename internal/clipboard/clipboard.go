// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 terminal escape when no clipboard tool is installed (e.g. over SSH).
package clipboard

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/f3rmion/gematria/internal/errors"
)

// Write copies text to the clipboard.
func Write(text string) error {
	if !clipboard.Unsupported {
		if err := clipboard.WriteAll(text); err == nil {
			return nil
		}
	}
	return writeOSC52(os.Stderr, text)
}

// Available reports whether a native clipboard tool was found. Write still
// works through the terminal when it returns false.
func Available() bool {
	return !clipboard.Unsupported
}

func writeOSC52(w io.Writer, text string) error {
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing osc52 sequence")
	}
	return nil
}
