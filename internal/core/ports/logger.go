package ports

import "io"

// Logger defines the application-facing logging surface. It satisfies
// domain.Logger, so the same instance backs the execution context's sink.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
	// SetOutput redirects the logger's output. Used by tests and by
	// telemetry bridges that own the terminal.
	SetOutput(w io.Writer)
}
