package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bbsync/internal/appConfig"
	"bbsync/internal/bitbucket"
	"bbsync/internal/color"
	"bbsync/internal/log"
	"bbsync/internal/syncCommand"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bbsync",
		Short:         "Clone or update every repository of a Bitbucket Server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := appConfig.AddFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		config, err := appConfig.LoadConfig(flags.ConfigFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.FgRed("Failed to load configuration: %v", err))
			return err
		}
		flags.ApplyTo(config, cmd.Flags())

		settings, err := config.Validate()
		if err != nil {
			fmt.Fprintln(os.Stderr, color.FgRed("%v", err))
			return err
		}
		if err := logger.InitLogger(settings.Verbose); err != nil {
			fmt.Fprintln(os.Stderr, color.FgRed("Failed to open log file: %v", err))
			return err
		}

		_, err = syncCommand.ExecuteSyncCommand(cmd.Context(), settings, os.Stdout, os.Stdout)
		if err != nil {
			logger.Log.Errorf("Catalog listing failed: %v", err)
			var fetchErr *bitbucket.FetchError
			if errors.As(err, &fetchErr) && settings.Connection.Verbose {
				fmt.Fprintln(os.Stderr, color.FgRed("%s", fetchErr.Detailed()))
			} else {
				fmt.Fprintln(os.Stderr, color.FgRed("%v", err))
			}
			return err
		}
		return nil
	}
	return cmd
}
