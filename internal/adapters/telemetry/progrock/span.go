package progrock

import (
	"github.com/vito/progrock"
)

// Span implements ports.Span wrapping *progrock.VertexRecorder.
type Span struct {
	vertex *progrock.VertexRecorder
	failed error
}

// Write streams output to the vertex's stdout.
func (s *Span) Write(p []byte) (int, error) {
	return s.vertex.Stdout().Write(p)
}

// RecordError records an error for the vertex. The vertex is reported as
// failed when it ends.
func (s *Span) RecordError(err error) {
	s.failed = err
}

// End completes the vertex.
func (s *Span) End() {
	s.vertex.Done(s.failed)
}
