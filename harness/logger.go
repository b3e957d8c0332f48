package harness

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is a minimal printf-style diagnostic sink. It is write-only: the
// harness never reads what scenarios log.
type Logger interface {
	Printf(message string, args ...any)
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...any) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

// CapturedMessage is one timestamped debug line.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput is a scenario's accumulated debug log.
type CapturedOutput []CapturedMessage

// Dump writes every captured line to dest with the given prefix.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n", prefix, m.Time.Format(timestampFormat), m.Message)
	}
}

// CapturingLogger buffers debug output in memory. Safe for concurrent use.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...any) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

// Output returns a copy of everything captured so far.
func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append(CapturedOutput(nil), l.output...)
	l.lock.Unlock()
	return ret
}
