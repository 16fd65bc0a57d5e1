package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd verifies the command tree wiring.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "quotegrab" {
		t.Errorf("expected Use quotegrab, got %q", cmd.Use)
	}

	want := map[string]bool{"crawl": false, "init": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}

	if flag := cmd.PersistentFlags().Lookup("verbose"); flag == nil {
		t.Error("expected persistent verbose flag")
	}
}

// TestRootCmdHelp verifies that help executes without error.
func TestRootCmdHelp(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("failed to execute help: %v", err)
	}
	if !strings.Contains(out.String(), "quotegrab") {
		t.Error("expected help output to mention quotegrab")
	}
	if !strings.Contains(out.String(), "crawl") {
		t.Error("expected help output to list the crawl command")
	}
}

// TestRootCmdUnknownCommand verifies error propagation.
func TestRootCmdUnknownCommand(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"no-such-command"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown command")
	}
}
