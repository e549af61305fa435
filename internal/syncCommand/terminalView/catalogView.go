package terminalView

import (
	"fmt"
	"io"
	"strings"

	"bbsync/internal/color"
	"bbsync/internal/ext"
	"bbsync/internal/view"
)

// CatalogView shows where repositories come from and go to, and how far the
// catalog listing got.
type CatalogView struct {
	viewModel *SyncCommandViewModel
	stdout    io.Writer
}

func NewCatalogView(vm *SyncCommandViewModel, stdout io.Writer) *CatalogView {
	return &CatalogView{
		viewModel: vm,
		stdout:    stdout,
	}
}

func (r *CatalogView) Render(width int) (lines int) {
	vm := r.viewModel
	out := fmt.Sprintf(
		"%s\n  <- %s:\n    %s of %s catalog entries listed\n",
		color.FgCyan("%s", view.TruncateTextToWidth(width, ext.ReplaceHomeDirWithTilde(vm.OutputDirectory))),
		color.FgCyan("%s", view.TrimTextToWidth(max(width-6, 1), vm.ServerURL)),
		color.FgMagenta("%d", vm.CatalogEntries.Count()),
		color.FgMagenta("%d", vm.CatalogEntries.Total()),
	)
	_, err := fmt.Fprint(r.stdout, out)
	if err != nil {
		return 0
	}
	return strings.Count(out, "\n")
}
