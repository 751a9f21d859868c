package pdfbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-pdfbook/internal/process"
)

// Argument placeholders replaced by CommandTransform.
const (
	InputPlaceholder  = "{input}"
	OutputPlaceholder = "{output}"
)

// DefaultPressReadyCommand is the tool CommandTransform runs by default.
const DefaultPressReadyCommand = "press-ready"

// DefaultPressReadyArgs are the arguments for DefaultPressReadyCommand.
var DefaultPressReadyArgs = []string{"build", "--input", InputPlaceholder, "--output", OutputPlaceholder}

// PressReadyTransform converts the PDF at inputPath into a print-ready PDF
// at outputPath. Errors are returned to the caller unchanged.
type PressReadyTransform interface {
	Transform(ctx context.Context, inputPath, outputPath string) error
}

// TransformFunc adapts a function to PressReadyTransform.
type TransformFunc func(ctx context.Context, inputPath, outputPath string) error

// Transform calls f.
func (f TransformFunc) Transform(ctx context.Context, inputPath, outputPath string) error {
	return f(ctx, inputPath, outputPath)
}

// CommandTransform runs an external command as the press-ready transform.
// The command runs in its own process group, which is killed when the
// context ends or Timeout elapses.
type CommandTransform struct {
	Command string
	Args    []string      // {input} and {output} are substituted
	Timeout time.Duration // 0 = no timeout beyond the context
	Logger  *slog.Logger
}

// NewCommandTransform returns a transform for command with args. An empty
// command selects press-ready; without arguments the default argument
// template is used.
func NewCommandTransform(command string, args ...string) *CommandTransform {
	if command == "" {
		command = DefaultPressReadyCommand
	}
	if len(args) == 0 {
		args = DefaultPressReadyArgs
	}
	return &CommandTransform{Command: command, Args: args}
}

// Transform runs the command and checks that it produced outputPath.
func (c *CommandTransform) Transform(ctx context.Context, inputPath, outputPath string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := ExpandArgs(c.Args, inputPath, outputPath)
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("running press-ready transform", "command", c.Command, "args", args)

	err := process.Run(ctx, c.Command, args, process.DefaultTailSize)
	switch {
	case err == nil:
	case errors.Is(err, process.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrPressReadyNotFound, c.Command)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrPressReadyFailed, err)
	}

	if info, statErr := os.Stat(outputPath); statErr != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s produced no output at %s", ErrPressReadyFailed, c.Command, outputPath)
	}
	return nil
}

// ExpandArgs substitutes the input and output placeholders in args.
// Placeholders may appear inside a larger argument, e.g. "--in={input}".
func ExpandArgs(args []string, inputPath, outputPath string) []string {
	r := strings.NewReplacer(InputPlaceholder, inputPath, OutputPlaceholder, outputPath)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
