package main

import (
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args     []string
		wantCode int
		want     string
	}{
		{nil, ExitSuccess, "Commands:"},
		{[]string{"process"}, ExitSuccess, "Exit codes:"},
		{[]string{"doctor"}, ExitSuccess, "pdfbook doctor [--json]"},
		{[]string{"version"}, ExitSuccess, "pdfbook version"},
		{[]string{"help"}, ExitSuccess, "pdfbook help [command]"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv(nil)
			if got := runHelp(tt.args, env); got != tt.wantCode {
				t.Errorf("runHelp() = %d, want %d", got, tt.wantCode)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, stdout.String())
			}
		})
	}
}

func TestRunHelp_Unknown(t *testing.T) {
	t.Parallel()

	env, stdout, stderr := testEnv(nil)
	if got := runHelp([]string{"bake"}, env); got != ExitUsage {
		t.Errorf("runHelp(bake) = %d, want %d", got, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Unknown command: bake") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.String() != "" {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}
