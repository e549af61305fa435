package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

const RefreshInterval = 100 * time.Millisecond

// IsTerminal reports whether file is attached to a terminal.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

// StartTTYRenderLoop redraws r in place on out until ctx is done, then draws it
// one last time so the final state stays on screen.
func StartTTYRenderLoop(ctx context.Context, r View, out io.Writer, file *os.File) error {
	if !IsTerminal(file) {
		return errors.New("cannot start a TTY render loop on a non-terminal file")
	}
	widthOf := func() int {
		width, _, err := term.GetSize(int(file.Fd()))
		if err != nil {
			return 80
		}
		return width
	}
	return renderLoop(ctx, r, out, widthOf, RefreshInterval)
}

func renderLoop(ctx context.Context, r View, out io.Writer, widthOf func() int, interval time.Duration) error {
	lineCount := r.Render(widthOf())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_, err := fmt.Fprint(out, ansiLineOffset(lineCount))
			if err != nil {
				return err
			}
			r.Render(widthOf())
			return nil
		case <-ticker.C:
			_, err := fmt.Fprint(out, ansiLineOffset(lineCount))
			if err != nil {
				return err
			}
			lineCount = r.Render(widthOf())
		}
	}
}
