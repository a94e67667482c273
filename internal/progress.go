package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	// HeaderStyle renders table headings in the inspect and cache commands
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// progressOut receives spinners and status messages. Stdout is reserved for
// the exported document.
var progressOut io.Writer = os.Stderr

// SetProgressOutput redirects spinners and status messages, e.g. in tests
func SetProgressOutput(w io.Writer) {
	progressOut = w
}

// ProgressStep represents a single step in a multi-step process
type ProgressStep struct {
	Message string
	Fn      func() error
}

// ShowProgress runs fn behind a spinner when stderr is a terminal
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(progressOut) {
		LogDebug(message)
		return fn()
	}
	return showSpinner(ctx, message, fn)
}

// ShowProgressWithSteps runs steps in order and stops at the first failure
func ShowProgressWithSteps(ctx context.Context, steps []ProgressStep) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := step.Message
		if len(steps) > 1 {
			msg = fmt.Sprintf("[%d/%d] %s", i+1, len(steps), step.Message)
		}
		if err := ShowProgress(ctx, msg, step.Fn); err != nil {
			return fmt.Errorf("%s: %w", step.Message, err)
		}
	}
	return nil
}

func showSpinner(ctx context.Context, message string, fn func() error) error {
	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	done := make(chan error, 1)
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
				char := spinnerChars[i%len(spinnerChars)]
				fmt.Fprintf(progressOut, "\r%s %s", progressStyle.Render(char), message)
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	// fn owns the caller's variables until it returns, so cancellation waits
	// for it instead of abandoning it
	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		if err = <-done; err == nil {
			err = ctx.Err()
		}
	}
	close(stop)
	<-spinnerDone

	if err != nil {
		fmt.Fprintf(progressOut, "\r%s %s\n", errorStyle.Render("✗"), message)
		return err
	}
	fmt.Fprintf(progressOut, "\r%s %s\n", successStyle.Render("✓"), message)
	return nil
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func printStatus(style lipgloss.Style, symbol, plainPrefix, message string) {
	if isTerminal(progressOut) {
		fmt.Fprintf(progressOut, "%s %s\n", style.Render(symbol), message)
	} else {
		fmt.Fprintf(progressOut, "%s%s\n", plainPrefix, message)
	}
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	printStatus(successStyle, "✓", "", message)
}

// PrintError prints an error message
func PrintError(message string) {
	printStatus(errorStyle, "✗", "ERROR: ", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	printStatus(progressStyle, "ℹ", "", message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	printStatus(warningStyle, "⚠", "WARNING: ", message)
}
