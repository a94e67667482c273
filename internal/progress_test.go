package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func captureProgress(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := progressOut
	progressOut = &buf
	t.Cleanup(func() { progressOut = original })
	return &buf
}

func TestShowProgress(t *testing.T) {
	captureProgress(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	captureProgress(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		steps   []ProgressStep
		wantRun int
		wantErr bool
	}{
		{
			name: "successful steps",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return nil }},
			},
			wantRun: 2,
		},
		{
			name: "step with error",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return errors.New("step error") }},
				{Message: "Step 2", Fn: func() error { return nil }},
			},
			wantRun: 1,
			wantErr: true,
		},
		{
			name:  "empty steps",
			steps: []ProgressStep{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := 0
			for i := range tt.steps {
				fn := tt.steps[i].Fn
				tt.steps[i].Fn = func() error {
					run++
					return fn()
				}
			}

			err := ShowProgressWithSteps(ctx, tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgressWithSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
			if run != tt.wantRun {
				t.Errorf("ran %d steps, want %d", run, tt.wantRun)
			}
			if tt.wantErr && !strings.Contains(err.Error(), "Step 1") {
				t.Errorf("error should name the failing step, got %v", err)
			}
		})
	}
}

func TestShowProgressWithSteps_Cancelled(t *testing.T) {
	captureProgress(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ShowProgressWithSteps(ctx, []ProgressStep{
		{Message: "Never", Fn: func() error { t.Error("step should not run"); return nil }},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ShowProgressWithSteps() error = %v, want context.Canceled", err)
	}
}

func TestShowSpinner_CancelWaitsForFn(t *testing.T) {
	captureProgress(t)
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	finished := false

	go func() {
		<-started
		cancel()
	}()
	err := showSpinner(ctx, "Slow", func() error {
		close(started)
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		finished = true
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("showSpinner() error = %v, want context.Canceled", err)
	}
	if !finished {
		t.Error("showSpinner() returned before fn finished")
	}
}

func TestShowSpinner_FnErrorWinsOverCancel(t *testing.T) {
	captureProgress(t)
	ctx, cancel := context.WithCancel(context.Background())
	fnErr := errors.New("read failed")

	err := showSpinner(ctx, "Failing", func() error {
		cancel()
		return fnErr
	})
	if !errors.Is(err, fnErr) {
		t.Errorf("showSpinner() error = %v, want %v", err, fnErr)
	}
}

func TestPrintFunctions_NonTerminal(t *testing.T) {
	buf := captureProgress(t)

	PrintSuccess("exported")
	PrintError("failed")
	PrintInfo("info")
	PrintWarning("careful")

	out := buf.String()
	for _, want := range []string{"exported\n", "ERROR: failed\n", "info\n", "WARNING: careful\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}
