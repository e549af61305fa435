package terminalView

import (
	"fmt"
	"io"
	"strings"

	"bbsync/internal/color"
)

type SyncProgressView struct {
	viewModel *SyncCommandViewModel
	stdout    io.Writer
}

func NewSyncProgressView(vm *SyncCommandViewModel, stdout io.Writer) *SyncProgressView {
	return &SyncProgressView{
		viewModel: vm,
		stdout:    stdout,
	}
}

func (v SyncProgressView) Render(int) int {
	vm := v.viewModel
	synced := color.FgMagenta
	if vm.Repositories.Done() {
		synced = color.FgGreen
	}
	out := fmt.Sprintf("    %s of %s repositories synced\n    %s cloned, %s updated, %s up to date, %s failed\n",
		synced("%d", vm.Repositories.Count()),
		color.FgMagenta("%d", vm.Repositories.Total()),
		color.FgMagenta("%d", vm.Cloned.Count()),
		color.FgMagenta("%d", vm.Updated.Count()),
		color.FgMagenta("%d", vm.UpToDate.Count()),
		color.FgRed("%d", vm.Failed.Count()),
	)
	_, err := fmt.Fprint(v.stdout, out)
	if err != nil {
		return 0
	}
	return strings.Count(out, "\n")
}
