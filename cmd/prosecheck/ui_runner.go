package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"prosecheck/internal/driver"
	"prosecheck/internal/source"
	"prosecheck/internal/ui"
)

type checkOutcome struct {
	results []driver.FileResult
	err     error
}

func runCheckWithUI(ctx context.Context, title string, fs *source.FileSet, files []string, sess *session, opts driver.Options) ([]driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckFiles(ctx, fs, files, sess.checker, optsCopy)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the workers from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
