package terminalView

import (
	"io"
	"time"

	"bbsync/internal/view"
)

type SyncCommandView struct {
	compositeView *view.CompositeView
}

func NewSyncCommandView(vm *SyncCommandViewModel, out io.Writer, timeElapsedView view.View) *SyncCommandView {
	compositeView := view.NewCompositeView(make([]view.View, 0))
	compositeView.AddView(NewCatalogView(vm, out))
	compositeView.AddView(NewSyncProgressView(vm, out))

	compositeView.AddFooter(view.NewErrorView(vm.ErrorViewModel, out))
	compositeView.AddFooter(timeElapsedView)

	return &SyncCommandView{
		compositeView: compositeView,
	}
}

// NewTimedSyncCommandView measures elapsed time from startTime.
func NewTimedSyncCommandView(vm *SyncCommandViewModel, out io.Writer, startTime time.Time) *SyncCommandView {
	return NewSyncCommandView(vm, out, view.NewTimeElapsedView(startTime, out, time.Since))
}

func (c SyncCommandView) Render(width int) (lines int) {
	return c.compositeView.Render(width)
}
