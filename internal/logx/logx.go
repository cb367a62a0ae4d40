// Package logx implements the bridge's async logger: a process-wide
// singleton with a bounded, mutex-and-condition-variable-guarded queue
// drained by a single goroutine onto stdout, colored per level via
// github.com/fatih/color the way jchadwick-xbslink-ng's CLI output does.
// spec.md §4.6 is the contract this package implements.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level identifies a log record's severity.
type Level int

const (
	INFO Level = iota
	WARN
	ERROR
)

var levelTag = map[Level]*color.Color{
	INFO:  color.New(color.FgCyan, color.Bold),
	WARN:  color.New(color.FgYellow, color.Bold),
	ERROR: color.New(color.FgRed, color.Bold),
}

var levelName = map[Level]string{
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// defaultQueueCapacity bounds the in-flight record queue; Log blocks the
// caller once it's full, applying backpressure instead of growing without
// bound.
const defaultQueueCapacity = 4096

// Logger is a bounded, async, level-tagged line logger.
type Logger struct {
	out io.Writer

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []string
	capacity int
	stopped  bool
	done     chan struct{}
}

// New constructs a Logger writing to out and starts its drain goroutine.
func New(out io.Writer, capacity int) *Logger {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	l := &Logger{out: out, capacity: capacity, done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.drain()
	return l
}

var (
	defaultOnce sync.Once
	defaultLog  *Logger
)

// Default returns the process-wide singleton logger, constructing it on
// first use against os.Stdout.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLog = New(os.Stdout, defaultQueueCapacity)
	})
	return defaultLog
}

func (l *Logger) log(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("15:04:05.000")
	tag := levelTag[level].Sprintf("[%s]", levelName[level])
	line := fmt.Sprintf("%s %s %s", ts, tag, msg)

	l.mu.Lock()
	for len(l.queue) >= l.capacity && !l.stopped {
		l.cond.Wait()
	}
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, line)
	l.cond.Signal()
	l.mu.Unlock()
}

// Info submits an INFO-level record.
func (l *Logger) Info(format string, args ...any) { l.log(INFO, format, args...) }

// Warn submits a WARN-level record.
func (l *Logger) Warn(format string, args ...any) { l.log(WARN, format, args...) }

// Error submits an ERROR-level record.
func (l *Logger) Error(format string, args ...any) { l.log(ERROR, format, args...) }

func (l *Logger) drain() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if len(l.queue) == 0 && l.stopped {
			l.mu.Unlock()
			return
		}
		line := l.queue[0]
		l.queue = l.queue[1:]
		l.cond.Signal() // wake a producer blocked on a full queue
		l.mu.Unlock()

		fmt.Fprintln(l.out, line)
	}
}

// Shutdown stops accepting new records, flushes the queue fully, and joins
// the drain goroutine. Idempotent.
func (l *Logger) Shutdown() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	l.cond.Broadcast()
	l.mu.Unlock()
	<-l.done
}
