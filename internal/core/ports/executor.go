// Package ports defines the core interfaces for the application.
package ports

import "context"

// Command describes one shell invocation for the executor.
type Command struct {
	Argv        []string
	WorkingDir  string
	Environment map[string]string
}

// Executor defines the interface for running shell commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command, streaming its output to the run's sinks.
	// It returns an error carrying exit-code metadata when the command fails.
	Execute(ctx context.Context, cmd *Command) error
}
