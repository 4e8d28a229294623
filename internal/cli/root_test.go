package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"tutor/internal/level"
	"tutor/internal/service"
)

// runCLI executes the root command with a throwaway config and database so
// no user config is read or written.
func runCLI(t *testing.T, dir string, args ...string) error {
	t.Helper()
	base := []string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--db", filepath.Join(dir, "tutor.db"),
		"--format", "json",
	}
	RootCmd.SetArgs(append(base, args...))
	return RootCmd.Execute()
}

func TestCommandErrorsAreReturned(t *testing.T) {
	dir := t.TempDir()

	err := runCLI(t, dir, "session", "show", "missing")
	if !errors.Is(err, service.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	// the failed command released the store, so the next one can use it
	if err := runCLI(t, dir, "session", "new", "Graphs"); err != nil {
		t.Fatalf("session new: %v", err)
	}

	if err := runCLI(t, dir, "level", "adjust", "Expert"); !errors.Is(err, level.ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
	if err := runCLI(t, dir, "level", "classify", "high"); err == nil {
		t.Error("expected a parse error for a non-numeric score")
	}
}

func TestSubmitRequiresDiagnostic(t *testing.T) {
	dir := t.TempDir()
	err := runCLI(t, dir, "submit", "nobody", "--marks", "10", "--times", "1,2")
	if !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}
