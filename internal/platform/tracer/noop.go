package tracer

import (
	"context"
	"sync"
)

// NoopTracer does nothing.
type NoopTracer struct{}

func NewNoop() *NoopTracer { return &NoopTracer{} }

func (t *NoopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                     {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) AddEvent(string, ...Attribute) {}

// Finished describes one ended span captured by a Recorder.
type Finished struct {
	Name  string
	Attrs map[string]any
	Err   error
}

// Recorder keeps every ended span in memory.
type Recorder struct {
	mu    sync.Mutex
	spans []Finished
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	s := &recordedSpan{rec: r, f: Finished{Name: name, Attrs: map[string]any{}}}
	s.SetAttributes(attrs...)
	return ctx, s
}

// Spans returns a copy of the ended spans in end order.
func (r *Recorder) Spans() []Finished {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Finished(nil), r.spans...)
}

// Names returns the names of ended spans in end order.
func (r *Recorder) Names() []string {
	spans := r.Spans()
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Name
	}
	return out
}

type recordedSpan struct {
	rec *Recorder
	mu  sync.Mutex
	f   Finished
}

func (s *recordedSpan) End(err error) {
	s.mu.Lock()
	s.f.Err = err
	f := s.f
	s.mu.Unlock()

	s.rec.mu.Lock()
	s.rec.spans = append(s.rec.spans, f)
	s.rec.mu.Unlock()
}

func (s *recordedSpan) SetAttributes(attrs ...Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range attrs {
		s.f.Attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) AddEvent(string, ...Attribute) {}

var (
	_ Tracer = (*NoopTracer)(nil)
	_ Tracer = (*Recorder)(nil)
)
