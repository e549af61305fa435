package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"bbsync/internal/color"
	"bbsync/internal/counter"
	"bbsync/internal/ext"
)

// ErrorViewModel counts errors reported during a run and remembers the latest one.
type ErrorViewModel struct {
	errorCount  *counter.Counter
	mu          sync.Mutex
	latestError string
	logFilePath string
}

func NewErrorViewModel(logFilePath string) *ErrorViewModel {
	return &ErrorViewModel{
		errorCount:  counter.NewCounter(),
		logFilePath: logFilePath,
	}
}

func (vm *ErrorViewModel) ReportError(err error) {
	vm.mu.Lock()
	vm.latestError = err.Error()
	vm.mu.Unlock()
	vm.errorCount.Add(1)
}

func (vm *ErrorViewModel) Count() int {
	return vm.errorCount.Count()
}

func (vm *ErrorViewModel) LatestError() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.latestError
}

type ErrorView struct {
	viewModel *ErrorViewModel
	stdout    io.Writer
}

func NewErrorView(vm *ErrorViewModel, stdout io.Writer) *ErrorView {
	return &ErrorView{
		viewModel: vm,
		stdout:    stdout,
	}
}

// Render prints nothing until the first error.
func (v ErrorView) Render(width int) int {
	count := v.viewModel.Count()
	if count == 0 {
		return 0
	}
	out := fmt.Sprintf("--- %s errors ---\n%s\nSee log file:\n%s\n",
		color.FgRed("%d", count),
		TrimTextToWidth(width, firstLine(v.viewModel.LatestError())),
		color.FgMagenta("%s", ext.ReplaceHomeDirWithTilde(v.viewModel.logFilePath)))

	_, err := fmt.Fprint(v.stdout, out)
	if err != nil {
		return 0
	}
	return strings.Count(out, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
