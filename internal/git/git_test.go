package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Skipf("git init failed: %v", err)
	}
	return dir
}

func TestInspectOutsideRepo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")

	status, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if status.IsRepo {
		t.Skip("temp dir is inside a git work tree")
	}
	if got := FormatPlaintextStatus(status); got != "" {
		t.Errorf("expected no warnings outside a repo, got %q", got)
	}
}

func TestInspectUnignored(t *testing.T) {
	dir := initRepo(t)
	path := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(path, []byte("name,url,username,password\n"), 0600); err != nil {
		t.Fatal(err)
	}

	status, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !status.IsRepo {
		t.Fatal("expected IsRepo")
	}
	if status.Tracked {
		t.Error("new file should not be tracked")
	}
	if status.Ignored {
		t.Error("file should not be ignored")
	}
	if got := CheckPlaintext(path); !strings.Contains(got, "not in .gitignore") {
		t.Errorf("expected gitignore warning, got %q", got)
	}
}

func TestInspectIgnored(t *testing.T) {
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.csv\ndecrypted_*\n"), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "decrypted_passwords.db")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if got := CheckPlaintext(path); got != "" {
		t.Errorf("expected no warnings for ignored file, got %q", got)
	}
}
