//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"fmt"
	"os"
	"strings"
)

// Log accumulates a task's (dealer, P1, or P2) human-readable execution
// trace, flushed once to disk at the end of the task's run, per
// spec.md §5/§6.
type Log struct {
	b       strings.Builder
	started bool
}

// Section starts a new named section of the log.
func (l *Log) Section(title string) {
	if l.started {
		l.b.WriteString("\n")
	}
	l.started = true
	fmt.Fprintf(&l.b, "**** %s\n", title)
}

// Sent records that value was sent to other.
func (l *Log) Sent(other, desc string, value any) {
	fmt.Fprintf(&l.b, "Sent to %s %s: %v\n", other, desc, value)
}

// Received records that value was received from other.
func (l *Log) Received(other, desc string, value any) {
	fmt.Fprintf(&l.b, "Received from %s %s: %v\n", other, desc, value)
}

// Blank appends a blank line.
func (l *Log) Blank() {
	l.b.WriteString("\n")
}

// Linef appends a formatted line.
func (l *Log) Linef(format string, args ...any) {
	fmt.Fprintf(&l.b, format, args...)
	l.b.WriteString("\n")
}

// Append writes s verbatim, with no added newline.
func (l *Log) Append(s string) {
	l.b.WriteString(s)
}

// End appends a blank line followed by msg, with no trailing newline --
// msg is the last thing ever written to the log.
func (l *Log) End(msg string) {
	l.b.WriteString("\n" + msg)
}

// Write flushes the accumulated log to path.
func (l *Log) Write(path string) error {
	return os.WriteFile(path, []byte(l.b.String()), 0o644)
}
