package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"localopt/internal/driver"
	"localopt/internal/ui"
)

type optimizeOutcome struct {
	results []*driver.FileResult
	err     error
}

// runOptimizeWithUI runs driver.OptimizeFiles in the background and renders
// its progress events on stderr until it finishes.
func runOptimizeWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]*driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan optimizeOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.OptimizeFiles(ctx, files, opts)
		outcomeCh <- optimizeOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	// A failed UI stops reading; keep the producer from blocking.
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
