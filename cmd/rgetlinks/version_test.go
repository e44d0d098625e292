package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestBuildVersion tests the version fallback chain.
func TestBuildVersion(t *testing.T) {
	if got := buildVersion(); got == "" {
		t.Error("expected non-empty version")
	}
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out.String(), "rgetlinks version ") {
		t.Errorf("expected version line, got: %s", out.String())
	}
}
