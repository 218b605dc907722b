// Package progress renders load completion percentages for operators.
package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Reporter is a progress display that can be cut short by a failed load.
type Reporter interface {
	Update(pct int)
	Break()
}

// Text prints an in place percentage counter in the form
//
//	Percent loaded =  42
//
// rewriting the number with backspaces on every update, and ends the line
// when 100 is reached.
type Text struct {
	w    io.Writer
	open bool
	last int
}

// NewText returns a Text writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w, last: -1}
}

// Update rewrites the counter. Repeated values are not printed.
func (t *Text) Update(pct int) {
	if pct == t.last {
		return
	}
	if t.open {
		fmt.Fprintf(t.w, "\b\b\b%3d", pct)
	} else {
		fmt.Fprintf(t.w, "Percent loaded = %3d", pct)
		t.open = true
	}
	t.last = pct

	if pct >= 100 {
		fmt.Fprintln(t.w)
		t.open = false
	}
}

// Break ends a line left open by an interrupted load, so that whatever is
// printed next starts on its own line.
func (t *Text) Break() {
	if t.open {
		fmt.Fprintln(t.w)
		t.open = false
	}
}

// Bar draws a progress bar.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar returns a Bar drawing to w labelled with desc.
func NewBar(w io.Writer, desc string) *Bar {
	return &Bar{bar: progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)}
}

// Update moves the bar to pct.
func (b *Bar) Update(pct int) {
	_ = b.bar.Set(pct)
}

// Break ends a bar left open by an interrupted load.
func (b *Bar) Break() {
	if !b.bar.IsFinished() {
		_ = b.bar.Exit()
	}
}

// Log writes a log line each time the percentage crosses a multiple of
// ten.
type Log struct {
	log  *zap.Logger
	next int
}

// NewLog returns a Log writing info lines to log.
func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

// Update logs pct if it reached the next multiple of ten.
func (l *Log) Update(pct int) {
	if pct < l.next {
		return
	}
	l.log.Info("loading", zap.Int("percent", pct))
	l.next = pct - pct%10 + 10
}

// Break does nothing: log lines are always complete.
func (l *Log) Break() {}

// None discards updates.
type None struct{}

func (None) Update(int) {}
func (None) Break()     {}

// Multi drives several reporters with the same updates, in order.
type Multi []Reporter

func (m Multi) Update(pct int) {
	for _, r := range m {
		r.Update(pct)
	}
}

func (m Multi) Break() {
	for _, r := range m {
		r.Break()
	}
}
