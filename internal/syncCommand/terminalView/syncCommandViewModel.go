package terminalView

import (
	"bbsync/internal/counter"
	"bbsync/internal/gitrepo"
	"bbsync/internal/log"
	"bbsync/internal/view"
)

type SyncCommandViewModel struct {
	ServerURL       string
	OutputDirectory string
	// CatalogEntries counts projects and users whose repositories were listed.
	CatalogEntries *counter.Counter
	// Repositories counts finished syncs against the number of repositories found.
	Repositories   *counter.Counter
	Cloned         *counter.Counter
	Updated        *counter.Counter
	UpToDate       *counter.Counter
	Failed         *counter.Counter
	ErrorViewModel *view.ErrorViewModel
}

func NewSyncCommandViewModel(serverURL, outputDirectory string) *SyncCommandViewModel {
	return &SyncCommandViewModel{
		ServerURL:       serverURL,
		OutputDirectory: outputDirectory,
		CatalogEntries:  counter.NewCounter(),
		Repositories:    counter.NewCounter(),
		Cloned:          counter.NewCounter(),
		Updated:         counter.NewCounter(),
		UpToDate:        counter.NewCounter(),
		Failed:          counter.NewCounter(),
		ErrorViewModel:  view.NewErrorViewModel(logger.GetLogFilePath()),
	}
}

// Record counts a finished sync.
func (vm *SyncCommandViewModel) Record(outcome gitrepo.Outcome) {
	switch outcome.Kind {
	case gitrepo.Cloned:
		vm.Cloned.Add(1)
	case gitrepo.Updated:
		vm.Updated.Add(1)
	case gitrepo.UpToDate:
		vm.UpToDate.Add(1)
	default:
		vm.Failed.Add(1)
		vm.ErrorViewModel.ReportError(outcome.Err)
	}
	vm.Repositories.Add(1)
}
