// Package view renders progress to the terminal. A View writes its lines and
// reports how many it wrote, so a render loop can move the cursor back up and
// redraw in place.
package view

import (
	"fmt"
)

type View interface {
	Render(width int) (lines int)
}

func ansiLineOffset(lines int) string {
	if lines <= 0 {
		return ""
	}
	return fmt.Sprintf("\033[%dA", lines)
}
