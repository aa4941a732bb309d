package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mvp-joe/tagnav/internal/process"
	"github.com/mvp-joe/tagnav/internal/tags"
	"github.com/mvp-joe/tagnav/internal/task"
)

// TaskStatus is the JSON view of a rebuild task.
type TaskStatus struct {
	TaskID      string     `json:"task_id"`
	Name        string     `json:"name"`
	Root        string     `json:"root"`
	State       task.State `json:"state"`
	Message     string     `json:"message,omitempty"`
	ExitCode    *int       `json:"exit_code,omitempty"`
	Output      string     `json:"output,omitempty"`
	ErrorOutput string     `json:"error_output,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type taskEntry struct {
	task *task.Task
	root string
	err  error // set by OnDone
}

// TaskRegistry starts rebuild tasks and remembers them by ID for status
// queries. Tasks are kept for the lifetime of the server.
type TaskRegistry struct {
	runner   process.Runner
	interval time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	tasks map[string]*taskEntry
}

// NewTaskRegistry creates an empty registry.
func NewTaskRegistry(runner process.Runner, interval time.Duration, logger *slog.Logger) *TaskRegistry {
	return &TaskRegistry{
		runner:   runner,
		interval: interval,
		logger:   logger,
		tasks:    make(map[string]*taskEntry),
	}
}

// StartRebuild runs the client's builder in the background. The task is not
// tied to any request context so it outlives the tool call that started it.
func (r *TaskRegistry) StartRebuild(client *tags.Client) (*task.Task, error) {
	root := client.Root()
	entry := &taskEntry{root: root}
	t := task.New("rebuild "+root, task.RunCommand(r.runner, client.RebuildCommand()), task.Options{
		Interval:       r.interval,
		Indicator:      &logIndicator{logger: r.logger.With("root", root)},
		SuccessMessage: "build success on dir: " + root,
		FailureMessage: "build failed on dir: " + root,
		OnDone: func(out task.Outcome) {
			err := client.CompleteRebuild(out.Result, out.Err)
			if err != nil {
				r.logger.Warn("rebuild failed", "task_id", out.ID, "error", err)
			}
			r.mu.Lock()
			entry.err = err
			r.mu.Unlock()
		},
	})
	entry.task = t

	r.mu.Lock()
	r.tasks[t.ID()] = entry
	r.mu.Unlock()

	if err := t.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to start rebuild: %w", err)
	}
	r.logger.Info("rebuild started", "task_id", t.ID(), "root", root)
	return t, nil
}

// Get returns the task with the given ID.
func (r *TaskRegistry) Get(id string) (*task.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.tasks[id]
	if !ok {
		return nil, false
	}
	return e.task, true
}

// Status reports the current state of a task. Result fields are filled in
// once the task has completed.
func (r *TaskRegistry) Status(id string) (TaskStatus, bool) {
	r.mu.Lock()
	e, ok := r.tasks[id]
	r.mu.Unlock()
	if !ok {
		return TaskStatus{}, false
	}

	status := TaskStatus{
		TaskID: e.task.ID(),
		Name:   e.task.Name(),
		Root:   e.root,
		State:  e.task.State(),
	}
	select {
	case <-e.task.Done():
	default:
		return status, true
	}

	out, _ := e.task.Wait(context.Background())
	status.State = out.State
	status.Message = out.Message
	r.mu.Lock()
	err := e.err
	r.mu.Unlock()
	if errors.Is(err, tags.ErrToolUnavailable) {
		// The builder never ran, so there is no exit code or output.
		status.Error = err.Error()
		return status, true
	}
	code := out.Result.ExitCode
	status.ExitCode = &code
	status.Output = out.Result.Output
	status.ErrorOutput = out.Result.ErrorOutput
	if err != nil {
		status.Error = err.Error()
	}
	return status, true
}

// logIndicator reports task progress through the logger. Stdout belongs to
// the MCP transport.
type logIndicator struct {
	logger *slog.Logger
}

func (l *logIndicator) Tick(name string, frame int) {
	// Ticks arrive every interval; log roughly every 5s at 100ms.
	if frame > 0 && frame%50 == 0 {
		l.logger.Debug("task running", "task", name, "frame", task.Frame(frame))
	}
}

func (l *logIndicator) Finish(message string, success bool) {
	if success {
		l.logger.Info(message)
		return
	}
	l.logger.Warn(message)
}
