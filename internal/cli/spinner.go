package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/matzehuels/cardforge/pkg/progress"
)

// barWidth is the number of cells in the progress bar.
const barWidth = 30

// progressBar draws a timed progress task on one terminal line while a
// request is pending.
type progressBar struct {
	message string
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	task    *progress.Task
	mu      sync.Mutex
}

// newProgressBar creates a bar that stops when ctx is cancelled.
func newProgressBar(ctx context.Context, w io.Writer, message string) *progressBar {
	barCtx, cancel := context.WithCancel(ctx)
	return &progressBar{message: message, w: w, parent: ctx, ctx: barCtx, cancel: cancel}
}

// Start begins ticking.
func (b *progressBar) Start() {
	b.draw(0)
	b.task = progress.Start(b.ctx, progress.Interval, b.draw)
}

func (b *progressBar) draw(percent int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.w, "\r%s %3d%% %s", styleBar.Render(renderBar(percent, barWidth)), percent, StyleDim.Render(b.message))
}

// Stop halts the bar and clears the line. It is safe to call more than once.
func (b *progressBar) Stop() {
	if b.task != nil {
		b.task.Stop()
	}
	b.cancel()
	b.clearLine()
}

// StopWithSuccess fills the bar, clears it and prints a success message.
func (b *progressBar) StopWithSuccess(format string, args ...any) {
	if b.task != nil {
		b.task.Finish()
	}
	b.Stop()
	printSuccess(format, args...)
}

// StopWithError clears the bar and prints an error message.
func (b *progressBar) StopWithError(format string, args ...any) {
	b.Stop()
	printError(format, args...)
}

// Percent returns the last drawn percentage.
func (b *progressBar) Percent() int {
	if b.task == nil {
		return 0
	}
	return b.task.Percent()
}

// Cancelled reports whether the bar stopped because its parent context
// was cancelled.
func (b *progressBar) Cancelled() bool {
	return b.parent.Err() != nil
}

func (b *progressBar) clearLine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.w, "\r%s\r", strings.Repeat(" ", barWidth+len(b.message)+7))
}

// renderBar draws a bar of width cells, percent full.
func renderBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
