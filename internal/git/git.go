package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/illarion/pswdb/internal/security"
)

// PlaintextStatus describes how git sees a file holding unencrypted passwords.
type PlaintextStatus struct {
	Path    string
	IsRepo  bool
	Root    string
	Tracked bool // Committed or staged (bad)
	Ignored bool // Matched by a .gitignore rule (good)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// Toplevel returns the root of the work tree containing workDir.
func Toplevel(workDir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = workDir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// Inspect reports the git status of the file at path.
func Inspect(path string) (*PlaintextStatus, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	status := &PlaintextStatus{Path: path}

	dir := filepath.Dir(abs)
	if !IsGitRepo(dir) {
		return status, nil
	}
	root, err := Toplevel(dir)
	if err != nil {
		return status, nil
	}
	// Symlinked temp dirs make git report a different root.
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	inside, err := security.Contained(root, filepath.Join(dir, filepath.Base(abs)))
	if err != nil || !inside {
		return status, err
	}

	status.IsRepo = true
	status.Root = root
	name := filepath.Base(abs)
	status.Tracked = IsTracked(dir, name)
	status.Ignored = IsIgnored(dir, name)
	return status, nil
}

// FormatPlaintextStatus formats warnings for display. It returns an empty
// string when there is nothing to warn about.
func FormatPlaintextStatus(status *PlaintextStatus) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	if status.Tracked {
		result.WriteString(fmt.Sprintf("   error: %s holds unencrypted passwords and is tracked by git (run: git rm --cached %s)\n", status.Path, status.Path))
	}
	if !status.Ignored {
		result.WriteString(fmt.Sprintf("   warning: %s holds unencrypted passwords and is not in .gitignore\n", status.Path))
	}
	return result.String()
}

// CheckPlaintext inspects path and returns the formatted warnings, if any.
func CheckPlaintext(path string) string {
	status, err := Inspect(path)
	if err != nil {
		return ""
	}
	return FormatPlaintextStatus(status)
}
