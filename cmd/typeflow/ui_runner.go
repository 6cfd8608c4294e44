package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"typeflow/internal/driver"
	"typeflow/internal/ui"
)

type batchOutcome struct {
	batch *driver.Batch
	err   error
}

// runAnalyzeWithUI runs the batch while a progress view consumes its events.
func runAnalyzeWithUI(ctx context.Context, title string, files []string, opts driver.BatchOptions) (*driver.Batch, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		batch, err := driver.AnalyzeFiles(ctx, files, opts, driver.ChannelSink{Ch: events})
		outcomeCh <- batchOutcome{batch: batch, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit early; keep the workers unblocked
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.batch, uiErr
	}
	return outcome.batch, outcome.err
}
