package syncCommand

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"bbsync/internal/appConfig"
	"bbsync/internal/bitbucket"
	"bbsync/internal/color"
	"bbsync/internal/gitrepo"
	"bbsync/internal/log"
	"bbsync/internal/metrics"
	"bbsync/internal/report"
	"bbsync/internal/sh"
	"bbsync/internal/syncCommand/terminalView"
	"bbsync/internal/view"
)

// ExecuteSyncCommand lists the catalog, syncs every repository into the output
// directory and prints the report to stdout. Progress is drawn on terminal while
// the run lasts when terminal is a TTY. Only a failing catalog listing is
// returned as an error; failed repositories are part of the report.
func ExecuteSyncCommand(ctx context.Context, settings *appConfig.Settings, stdout io.Writer, terminal *os.File) (report.Report, error) {
	startTime := time.Now()
	m := metrics.New()

	vm := terminalView.NewSyncCommandViewModel(settings.Connection.BaseURL, settings.OutputDirectory)
	renderCtx, stopRenderLoop := context.WithCancel(ctx)
	renderDone := make(chan struct{})
	if terminal != nil && view.IsTerminal(terminal) {
		r := terminalView.NewTimedSyncCommandView(vm, terminal, startTime)
		go func() {
			defer close(renderDone)
			if err := view.StartTTYRenderLoop(renderCtx, r, terminal, terminal); err != nil {
				logger.Log.Warnf("Progress view disabled: %v", err)
			}
		}()
	} else {
		close(renderDone)
	}
	stopRendering := func() {
		stopRenderLoop()
		<-renderDone
	}

	logger.Log.Infof("Syncing %s into %s", color.FgCyan("%s", settings.Connection.BaseURL), color.FgCyan("%s", settings.OutputDirectory))
	logger.Log.Debugf("Settings: %s", settings.Describe())

	repos, err := bitbucket.FetchCatalog(ctx, settings.Connection, bitbucket.CatalogOptions{
		Metrics:  m,
		Progress: vm.CatalogEntries,
	})
	if err != nil {
		stopRendering()
		writeMetrics(m, settings.MetricsFile)
		return report.Report{}, err
	}
	vm.Repositories.AddTotal(len(repos))

	syncer := gitrepo.NewSyncer(
		sh.NewProcessRunner(gitrepo.GitEnv...),
		gitrepo.Options{OutputDirectory: settings.OutputDirectory, ResetState: settings.ResetState},
		m,
	)
	rep := Sync(ctx, repos, Options{
		Synchronizer:  syncer,
		Concurrency:   settings.GitConcurrency,
		RatePerSecond: settings.GitRatePerSecond,
		Progress:      vm.Record,
	})
	stopRendering()

	logger.Log.Info(color.FgGreen("%d repositories, %d synced (%d cloned, %d updated, %d up to date), %d failed. %.2f seconds",
		rep.Total, rep.Succeeded(), rep.Cloned, rep.Updated, rep.UpToDate, rep.Failed, time.Since(startTime).Seconds()))
	if err := rep.Render(stdout, settings.GitQuiet); err != nil {
		logger.Log.Warnf("Failed printing report: %v", err)
	}
	writeMetrics(m, settings.MetricsFile)
	return rep, nil
}

func writeMetrics(m *metrics.Metrics, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logger.Log.Errorf("%s", fmt.Errorf("failed writing metrics to %s: %w", path, err))
	}
}
