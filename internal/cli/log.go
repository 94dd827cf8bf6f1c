// Package cli implements the stresslayout command-line interface.
//
// The CLI is built using cobra, reads defaults from a TOML config file and
// logs via the charmbracelet/log library.
//
// # Commands
//
//   - layout: Compute node positions for one or more graph files
//   - watch: Animate a layout in the terminal and drag nodes around
//   - paths: Print the all-pairs shortest path matrix of a graph
//   - overlaps: Remove overlaps between a list of rectangles
//   - cache: Manage the distance matrix cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger on w that stamps each line with "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took. It is not safe for concurrent
// use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time, e.g.
// "Laid out 3 graphs (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() if there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
