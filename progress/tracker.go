package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/snc/limits"
	"github.com/sirupsen/logrus"
)

// DefaultUnits are the units a Tracker scales through, smallest first.
var DefaultUnits = []string{"bytes", "KiB", "MiB", "GiB"}

// Tracker accumulates a byte counter and decides when and what to display.
// It is not safe for concurrent use; a session reports from one goroutine.
type Tracker struct {
	out   io.Writer
	step  float64
	units []string

	total     uint64 // running total, never decreases
	displayed uint64 // last total rendered
	shown     bool   // whether anything was rendered since Reset
	width     int    // length of the last rendered line, without the leading \r
	renders   int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithStep sets the growth factor required between two partial renders.
// Values that are not finite and greater than 1 are ignored.
func WithStep(step float64) Option {
	return func(t *Tracker) {
		if err := limits.ValidateProgressStep(step); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "WithStep",
				"step":     step,
				"error":    err.Error(),
			}).Warn("Ignoring progress step")
			return
		}
		t.step = step
	}
}

// WithUnits replaces the unit names. The first unit is the byte unit; each
// following one is 1024 times the previous. An empty list is ignored.
func WithUnits(units ...string) Option {
	return func(t *Tracker) {
		if len(units) == 0 {
			return
		}
		t.units = append([]string(nil), units...)
	}
}

// New creates a Tracker writing to out, usually os.Stderr.
func New(out io.Writer, opts ...Option) *Tracker {
	t := &Tracker{
		out:   out,
		step:  limits.DefaultProgressStep,
		units: DefaultUnits,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset zeroes the counter and forgets the last rendered line. Call it at
// the start of every session.
func (t *Tracker) Reset() {
	t.total = 0
	t.displayed = 0
	t.shown = false
	t.width = 0
	t.renders = 0
}

// Total returns the largest total reported since Reset.
func (t *Tracker) Total() uint64 {
	return t.total
}

// Renders returns how many lines were drawn since Reset, final one included.
func (t *Tracker) Renders() int {
	return t.renders
}

// ReportPartial records total and renders it only when it has grown by at
// least the step factor over the last displayed value. It reports whether a
// line was drawn.
func (t *Tracker) ReportPartial(verb string, total uint64) bool {
	if total > t.total {
		t.total = total
	}
	if t.total == 0 {
		return false
	}
	if t.shown && float64(t.total) < float64(t.displayed)*t.step {
		return false
	}
	t.render(verb, t.total)
	return true
}

// ReportFinal renders total unconditionally and terminates the line.
func (t *Tracker) ReportFinal(verb string, total uint64) {
	if total > t.total {
		t.total = total
	}
	t.render(verb, t.total)
	_, _ = io.WriteString(t.out, "\n")
	t.width = 0
}

// render overwrites the current line with the formatted total, padding with
// spaces when the new text is shorter than the previous one.
func (t *Tracker) render(verb string, total uint64) {
	line := Format(verb, total, t.units)

	var b strings.Builder
	b.WriteByte('\r')
	b.WriteString(line)
	if pad := t.width - len(line); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	_, _ = io.WriteString(t.out, b.String())

	t.width = len(line)
	t.displayed = total
	t.shown = true
	t.renders++
}

// Format returns "<verb> <value> <unit>." for total, scaling by 1024 while
// the value is at least 1024 and a larger unit exists.
func Format(verb string, total uint64, units []string) string {
	if len(units) == 0 {
		units = DefaultUnits
	}

	value := float64(total)
	i := 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%s %d %s.", verb, total, units[0])
	}
	return fmt.Sprintf("%s %.2f %s.", verb, value, units[i])
}
