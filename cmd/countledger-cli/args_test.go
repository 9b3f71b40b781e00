package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newTestRoot builds a root command tree identical to main() but with
// PersistentPreRun stubbed out so the API client is never initialised.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "countledger",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip client initialisation in tests.
		},
	}
	root.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "")
	root.PersistentFlags().StringVar(&flagFmt, "format", "json", "")

	root.AddCommand(newRegisterCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newAuditCmd())
	return root
}

// stubRun replaces the RunE of the named (sub)command so argument
// validation fires without touching the network.
func stubRun(t *testing.T, root *cobra.Command, path ...string) {
	t.Helper()
	cmd := root
	for _, name := range path {
		next, _, err := cmd.Find([]string{name})
		if err != nil || next == cmd {
			t.Fatalf("command %q not found", name)
		}
		cmd = next
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error { return nil }
	cmd.Run = nil
}

func TestLoginArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "requires the email argument",
			args:    []string{"login"},
			wantErr: true,
		},
		{
			name:    "accepts exactly one email",
			args:    []string{"login", "alice@acme.test"},
			wantErr: false,
		},
		{
			name:    "rejects extra positional args",
			args:    []string{"login", "alice@acme.test", "extra"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			stubRun(t, root, "login")
			err := executeArgs(t, root, tc.args...)
			if tc.wantErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAuditTrailFlags(t *testing.T) {
	root := newTestRoot()
	trail, _, err := root.Find([]string{"audit", "trail"})
	if err != nil {
		t.Fatalf("audit trail not registered: %v", err)
	}

	for _, flag := range []string{"action", "sku", "from", "to", "location", "page"} {
		if trail.Flags().Lookup(flag) == nil {
			t.Errorf("audit trail missing --%s flag", flag)
		}
	}
}

func TestAuditSendDefaults(t *testing.T) {
	root := newTestRoot()
	send, _, err := root.Find([]string{"audit", "send"})
	if err != nil {
		t.Fatalf("audit send not registered: %v", err)
	}

	kind := send.Flags().Lookup("kind")
	if kind == nil {
		t.Fatal("audit send missing --kind flag")
	}
	if kind.DefValue != "scan" {
		t.Errorf("default kind = %q, want scan", kind.DefValue)
	}
}

func TestUnknownCommand(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestRegisterRejectsPositionalArgs(t *testing.T) {
	root := newTestRoot()
	stubRun(t, root, "register")

	if err := executeArgs(t, root, "register", "unexpected"); err == nil {
		t.Error("expected error for positional arg")
	}
}
