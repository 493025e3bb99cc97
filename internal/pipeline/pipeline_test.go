package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fdacrawl/refusalscan/internal/model"
)

// recordingStep records its executions and optionally fails.
type recordingStep struct {
	name string
	err  error
	log  *[]string
}

func (s *recordingStep) Do(_ context.Context, _ *model.CrawlReport) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

func (s *recordingStep) Name() string {
	return s.name
}

// TestPipelineExecute tests step sequencing and error policy.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var log []string
		p := New()
		p.AddSteps(
			&recordingStep{name: "first", log: &log},
			&recordingStep{name: "second", log: &log},
			&recordingStep{name: "third", log: &log},
		)

		report := model.NewCrawlReport("http://host/")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("execute failed: %v", err)
		}

		want := []string{"first", "second", "third"}
		if !reflect.DeepEqual(log, want) {
			t.Errorf("expected order %v, got %v", want, log)
		}
		if !reflect.DeepEqual(report.PerformedSteps, want) {
			t.Errorf("expected performed steps %v, got %v", want, report.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		var log []string
		stepErr := errors.New("step broke")
		p := New()
		p.AddSteps(
			&recordingStep{name: "first", err: stepErr, log: &log},
			&recordingStep{name: "second", log: &log},
		)

		report := model.NewCrawlReport("http://host/")
		if err := p.Execute(context.Background(), report); !errors.Is(err, stepErr) {
			t.Fatalf("expected the step error, got %v", err)
		}
		if len(log) != 1 {
			t.Errorf("expected only the first step to run, got %v", log)
		}
		if report.Error == nil {
			t.Error("expected the error recorded on the report")
		}
	})

	t.Run("continues past failures when configured", func(t *testing.T) {
		t.Parallel()

		var log []string
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&recordingStep{name: "first", err: errors.New("step broke"), log: &log},
			&recordingStep{name: "second", log: &log},
		)

		report := model.NewCrawlReport("http://host/")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("expected execution to continue, got %v", err)
		}
		if len(log) != 2 {
			t.Errorf("expected both steps to run, got %v", log)
		}
	})

	t.Run("cancellation stops between steps", func(t *testing.T) {
		t.Parallel()

		var log []string
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := New()
		p.AddStep(&recordingStep{name: "never", log: &log})

		err := p.Execute(ctx, model.NewCrawlReport("http://host/"))
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(log) != 0 {
			t.Errorf("expected no step to run, got %v", log)
		}
	})
}

// TestPipelineStepNames tests step introspection.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var log []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "crawl", log: &log},
		&recordingStep{name: "export", log: &log},
	)

	if p.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", p.StepCount())
	}
	want := []string{"crawl", "export"}
	if !reflect.DeepEqual(p.StepNames(), want) {
		t.Errorf("expected %v, got %v", want, p.StepNames())
	}
}
