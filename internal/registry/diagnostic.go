package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// DiagnosticKind categorizes advisory findings made while building a
// class registry. None of them fail the build.
type DiagnosticKind string

const (
	// DiagnosticCollision: a descendant re-declared a property an ancestor
	// already defines. The ancestor's spec is kept.
	DiagnosticCollision DiagnosticKind = "collision"

	// DiagnosticNoProperties: the class ends up with no properties at all.
	DiagnosticNoProperties DiagnosticKind = "no_properties"

	// DiagnosticOrphanOverride: an override is installed for a name the
	// class does not declare. It can never be invoked.
	DiagnosticOrphanOverride DiagnosticKind = "orphan_override"
)

// Level returns the slog level a diagnostic of this kind is logged at.
func (k DiagnosticKind) Level() slog.Level {
	if k == DiagnosticCollision {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// Diagnostic is one advisory finding.
type Diagnostic struct {
	Kind     DiagnosticKind
	Class    string // concrete class being resolved
	Level    string // declaring class the finding refers to
	Property string
	Message  string
}

func (d Diagnostic) String() string {
	if d.Property != "" {
		return fmt.Sprintf("%s: %s.%s: %s", d.Kind, d.Level, d.Property, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Class, d.Message)
}

// DiagnosticSink receives advisory diagnostics. Implementations must be
// safe for concurrent use; different classes may resolve concurrently.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// SlogSink logs diagnostics through a slog.Logger.
type SlogSink struct {
	Logger *slog.Logger // nil means slog.Default()
}

func (s SlogSink) Report(d Diagnostic) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{
		slog.String("kind", string(d.Kind)),
		slog.String("class", d.Class),
	}
	if d.Level != "" && d.Level != d.Class {
		attrs = append(attrs, slog.String("declared_in", d.Level))
	}
	if d.Property != "" {
		attrs = append(attrs, slog.String("property", d.Property))
	}
	logger.LogAttrs(context.Background(), d.Kind.Level(), d.Message, attrs...)
}

// Recorder keeps diagnostics in memory.
type Recorder struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.diags)
}

// OfKind returns recorded diagnostics of one kind.
func (r *Recorder) OfKind(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Tee fans diagnostics out to several sinks.
type Tee []DiagnosticSink

func (t Tee) Report(d Diagnostic) {
	for _, s := range t {
		s.Report(d)
	}
}
