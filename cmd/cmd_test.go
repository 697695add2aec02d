package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwbudde/clbench/internal/bench"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "--vector-size", "64", "--work-group", "8", "--repeat", "2")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	for _, want := range []string{
		"Platforms found: 1",
		"Devices found: 1",
		"Compute addition of 64 elements in sequence started",
		"(sequential, verification passed)",
		"(parallel, verification passed)",
		"Parallel over 2 runs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCommandFloatVariant(t *testing.T) {
	out, err := execute(t, "run", "-n", "1024", "-g", "16", "--variant", "float", "--coefficient", "1.5")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Compute scaled product of 1024 elements") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunCommandReportsFailure(t *testing.T) {
	out, err := execute(t, "run", "--vector-size", "10", "--work-group", "4")
	if err == nil {
		t.Fatal("expected error for indivisible work-group size")
	}
	var reported reportedError
	if !errors.As(err, &reported) {
		t.Errorf("error should be marked as reported: %v", err)
	}
	if !errors.Is(err, bench.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.HasPrefix(out, "Error! ") {
		t.Errorf("expected a single Error! line, got:\n%s", out)
	}
}

func TestRunCommandEmptyKernelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cl")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "-n", "16", "-g", "4", "--kernel", path)
	if !errors.Is(err, bench.ErrEmptyKernelSource) {
		t.Fatalf("expected ErrEmptyKernelSource, got %v", err)
	}
	if strings.Contains(out, "Compute") {
		t.Errorf("nothing may run after a failed build:\n%s", out)
	}
}

func TestRunCommandConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clbench.yaml")
	doc := "vectorSize: 32\nworkGroupSize: 4\nvariant: float\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	// --vector-size overrides the file; the variant comes from it.
	out, err := execute(t, "run", "--config", path, "--vector-size", "48")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Compute scaled product of 48 elements in parallel started (work-group size 4)") {
		t.Errorf("config file not applied:\n%s", out)
	}
}

func TestDevicesCommand(t *testing.T) {
	out, err := execute(t, "devices")
	if err != nil {
		t.Fatalf("devices failed: %v", err)
	}
	if !strings.Contains(out, "Platform: Go Host Runtime") || !strings.Contains(out, "Device Info (host):") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTuneCommandExhaustive(t *testing.T) {
	out, err := execute(t, "tune", "-n", "256", "--max-group", "16", "--exhaustive")
	if err != nil {
		t.Fatalf("tune failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "WORK-GROUP") || !strings.Contains(out, "5 of 5 candidates measured") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "clbench version "+version+"\n" {
		t.Errorf("got %q", out)
	}
}

func TestNewLogHandler(t *testing.T) {
	for _, tc := range []struct {
		level, format string
		ok            bool
	}{
		{"debug", "json", true},
		{"INFO", "text", true},
		{"", "", true},
		{"loud", "text", false},
		{"info", "xml", false},
	} {
		_, err := newLogHandler(io.Discard, tc.level, tc.format)
		if (err == nil) != tc.ok {
			t.Errorf("newLogHandler(%q, %q) error = %v, want ok=%v", tc.level, tc.format, err, tc.ok)
		}
	}
}
