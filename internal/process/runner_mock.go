package process

import (
	"context"
	"fmt"
	"sync"
)

// MockRunner is a fake Runner for testing. Responses are keyed by the
// rendered command line; unknown commands return Default.
type MockRunner struct {
	mu        sync.Mutex
	Responses map[string]Result
	Errors    map[string]error
	Default   Result
	calls     []Command
}

// NewMockRunner creates a mock whose default response is a successful,
// silent exit.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]Result),
		Errors:    make(map[string]error),
		Default:   Result{Success: true},
	}
}

// On registers stdout for a successful run of the given command line.
func (m *MockRunner) On(cmdline, stdout string) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[cmdline] = Result{Success: true, Output: stdout}
	return m
}

// OnResult registers a full result for the given command line.
func (m *MockRunner) OnResult(cmdline string, res Result) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[cmdline] = res
	return m
}

// OnError makes the given command line fail to start.
func (m *MockRunner) OnError(cmdline string, err error) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[cmdline] = err
	return m
}

func (m *MockRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, cmd)
	key := cmd.String()
	if err, ok := m.Errors[key]; ok {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrStart, cmd.Name, err)
	}
	if res, ok := m.Responses[key]; ok {
		return res, nil
	}
	return m.Default, nil
}

// Calls returns a copy of every command run so far.
func (m *MockRunner) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Command, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent command, or a zero Command.
func (m *MockRunner) LastCall() Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Command{}
	}
	return m.calls[len(m.calls)-1]
}
