package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestRootCmd_HelpMentionsRigger(t *testing.T) {
	viper.Reset()

	buf := bytes.NewBufferString("")
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Rigger") {
		t.Errorf("help output missing %q: %s", "Rigger", output)
	}
	if !strings.Contains(output, "Usage:") {
		t.Errorf("help output missing usage line: %s", output)
	}
}

func TestGetVersion_DefaultsToDev(t *testing.T) {
	if GetVersion() != "dev" {
		t.Errorf("GetVersion() = %q, want %q", GetVersion(), "dev")
	}
}

func TestStatusToInt_OrdersPendingBeforeTerminal(t *testing.T) {
	pending := statusToInt("PendingEnhancement")
	terminal := statusToInt("Completed")
	if pending >= terminal {
		t.Errorf("expected pending status to sort before terminal, got pending=%d terminal=%d", pending, terminal)
	}
}
