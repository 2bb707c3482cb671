package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *model.IngestRun) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *model.IngestRun) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// discardLogger returns a logger that swallows all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineExecute tests step execution order and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *model.IngestRun) error {
					order = append(order, name)
					return nil
				},
			}
		}

		p := New(WithLogger(discardLogger()))
		p.AddSteps(record("parse"), record("resolve"), record("load"))

		run := model.NewIngestRun("weeks")
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("execute failed: %v", err)
		}

		want := []string{"parse", "resolve", "load"}
		if len(order) != len(want) {
			t.Fatalf("expected %d steps executed, got %d", len(want), len(order))
		}
		for i, name := range want {
			if order[i] != name {
				t.Errorf("step %d: expected %q, got %q", i, name, order[i])
			}
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("resolve failed")
		failing := &mockStep{
			name: "resolve",
			doFunc: func(_ context.Context, _ *model.IngestRun) error {
				return stepErr
			},
		}
		after := &mockStep{name: "load"}

		p := New(WithLogger(discardLogger()))
		p.AddSteps(failing, after)

		err := p.Execute(context.Background(), model.NewIngestRun("weeks"))
		if !errors.Is(err, stepErr) {
			t.Errorf("expected step error, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("expected execution to stop before the next step")
		}
	})

	t.Run("continues after error when configured", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{
			name: "resolve",
			doFunc: func(_ context.Context, _ *model.IngestRun) error {
				return errors.New("resolve failed")
			},
		}
		after := &mockStep{name: "load"}

		p := New(WithLogger(discardLogger()), WithContinueOnError(true))
		p.AddSteps(failing, after)

		if err := p.Execute(context.Background(), model.NewIngestRun("weeks")); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if after.callCount != 1 {
			t.Error("expected the next step to run")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "parse"}
		p := New(WithLogger(discardLogger()))
		p.AddStep(step)

		err := p.Execute(ctx, model.NewIngestRun("weeks"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected no steps to run after cancellation")
		}
	})
}

// TestPipelineStepNames tests step name reporting.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New(WithLogger(discardLogger()))
	p.AddSteps(&mockStep{name: "parse"}, &mockStep{name: "validate"})

	names := p.StepNames()
	if len(names) != 2 || names[0] != "parse" || names[1] != "validate" {
		t.Errorf("unexpected step names: %v", names)
	}
}
