package warning

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
)

// Category classifies a warning.
type Category string

const (
	Deprecation        Category = "DeprecationWarning"
	PendingDeprecation Category = "PendingDeprecationWarning"
	User               Category = "UserWarning"
)

// Warning is a single emitted advisory.
type Warning struct {
	Category Category
	Message  string
	File     string
	Line     int
}

// Source renders the attributed call site as "file.go:42".
func (w Warning) Source() string {
	if w.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(w.File), w.Line)
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Source(), w.Category, w.Message)
}

// Sink receives emitted warnings.
type Sink interface {
	Handle(w Warning)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(w Warning)

// Handle implements Sink.
func (f SinkFunc) Handle(w Warning) { f(w) }

// Emitter fans warnings out to its sinks.
type Emitter struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewEmitter creates an Emitter delivering to the given sinks.
func NewEmitter(sinks ...Sink) *Emitter {
	return &Emitter{sinks: sinks}
}

// AddSink registers an additional sink.
func (e *Emitter) AddSink(s Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, s)
}

// Warn emits a warning. stacklevel 1 attributes it to the line calling Warn,
// 2 to the caller of that function, and so on. A nil Emitter drops warnings.
func (e *Emitter) Warn(category Category, message string, stacklevel int) {
	if e == nil {
		return
	}
	if stacklevel < 1 {
		stacklevel = 1
	}
	w := Warning{Category: category, Message: message}
	if _, file, line, ok := runtime.Caller(stacklevel); ok {
		w.File, w.Line = file, line
	}

	e.mu.RLock()
	sinks := e.sinks
	e.mu.RUnlock()
	for _, s := range sinks {
		s.Handle(w)
	}
}

// LogSink writes warnings to a slog.Logger at warn level.
func LogSink(logger *slog.Logger) Sink {
	return SinkFunc(func(w Warning) {
		logger.Warn(w.Message, "category", string(w.Category), "source", w.Source())
	})
}

// Recorder is a Sink that keeps every warning it receives.
type Recorder struct {
	mu       sync.Mutex
	warnings []Warning
}

// Handle implements Sink.
func (r *Recorder) Handle(w Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, w)
}

// All returns a copy of the recorded warnings in emission order.
func (r *Recorder) All() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Messages returns the recorded messages in emission order.
func (r *Recorder) Messages() []string {
	all := r.All()
	msgs := make([]string, len(all))
	for i, w := range all {
		msgs[i] = w.Message
	}
	return msgs
}

// Len returns the number of recorded warnings.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

// Reset discards recorded warnings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = nil
}
