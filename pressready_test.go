package pdfbook

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestExpandArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default command line",
			args: DefaultPressReadyArgs,
			want: []string{"build", "--input", "/tmp/in.pdf", "--output", "/out/book.pdf"},
		},
		{
			name: "embedded placeholders",
			args: []string{"--in={input}", "--out={output}"},
			want: []string{"--in=/tmp/in.pdf", "--out=/out/book.pdf"},
		},
		{
			name: "no placeholders",
			args: []string{"-v"},
			want: []string{"-v"},
		},
		{
			name: "empty",
			args: nil,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExpandArgs(tt.args, "/tmp/in.pdf", "/out/book.pdf")
			if !slices.Equal(got, tt.want) {
				t.Errorf("ExpandArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandArgs_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	args := []string{"{input}"}
	ExpandArgs(args, "a", "b")
	if args[0] != "{input}" {
		t.Errorf("input slice mutated: %q", args)
	}
}

func TestNewCommandTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		command     string
		args        []string
		wantCommand string
		wantArgs    []string
	}{
		{"defaults", "", nil, DefaultPressReadyCommand, DefaultPressReadyArgs},
		{"default command name", "press-ready", nil, "press-ready", DefaultPressReadyArgs},
		{"custom command gets default args", "/opt/bin/press-ready", nil, "/opt/bin/press-ready", DefaultPressReadyArgs},
		{"custom args", "press-ready", []string{"{input}", "{output}"}, "press-ready", []string{"{input}", "{output}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewCommandTransform(tt.command, tt.args...)
			if c.Command != tt.wantCommand {
				t.Errorf("Command = %q, want %q", c.Command, tt.wantCommand)
			}
			if !slices.Equal(c.Args, tt.wantArgs) {
				t.Errorf("Args = %q, want %q", c.Args, tt.wantArgs)
			}
		})
	}
}

func TestCommandTransform_NotFound(t *testing.T) {
	t.Parallel()

	c := NewCommandTransform("go-pdfbook-no-such-command-xyz")
	dir := t.TempDir()
	err := c.Transform(context.Background(), filepath.Join(dir, "in.pdf"), filepath.Join(dir, "out.pdf"))
	if !errors.Is(err, ErrPressReadyNotFound) {
		t.Fatalf("Transform() error = %v, want ErrPressReadyNotFound", err)
	}
}

func TestTransformFunc(t *testing.T) {
	t.Parallel()

	var got [2]string
	var tr PressReadyTransform = TransformFunc(func(_ context.Context, in, out string) error {
		got = [2]string{in, out}
		return nil
	})
	if err := tr.Transform(context.Background(), "a", "b"); err != nil {
		t.Fatal(err)
	}
	if got != [2]string{"a", "b"} {
		t.Errorf("TransformFunc received %q", got)
	}
}
