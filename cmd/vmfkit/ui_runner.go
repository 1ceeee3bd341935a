package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"vmfkit/internal/pipeline"
	"vmfkit/internal/ui"
)

// runWithUI runs work while the progress view renders its events on stderr.
// Quitting the view with ctrl+c cancels the context passed to work.
func runWithUI(ctx context.Context, title string, files []string, work func(context.Context, pipeline.ProgressSink)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan pipeline.Event, 256)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		defer close(events)
		work(ctx, pipeline.ChannelSink{Ch: events})
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, uiErr := program.Run()
	if uiErr != nil || ui.Interrupted(final) {
		cancel()
	}
	// view could have stopped reading: drain so work never blocks
	for range events {
	}
	<-finished
	return uiErr
}
