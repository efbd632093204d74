package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Status describes the hash file from git's point of view
type Status struct {
	File    string
	IsRepo  bool
	Tracked bool // bad
	Ignored bool // good
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
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

// CheckHashFile reports the git status of file relative to workDir. Outside
// a repository (or without git installed) only IsRepo=false is reported.
func CheckHashFile(workDir, file string) *Status {
	status := &Status{File: file}

	if !IsGitRepo(workDir) {
		return status
	}
	status.IsRepo = true
	status.Tracked = IsTracked(workDir, file)
	status.Ignored = IsIgnored(workDir, file)

	return status
}

// FormatStatus formats git status for display
func FormatStatus(status *Status) string {
	if status == nil || !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	if status.Tracked {
		result.WriteString(fmt.Sprintf("   error: %s is tracked by git (run: git rm --cached %s)\n", status.File, status.File))
	} else {
		result.WriteString(fmt.Sprintf("   ok: %s not tracked by git\n", status.File))
	}

	switch {
	case status.Ignored:
		result.WriteString(fmt.Sprintf("   ok: %s in .gitignore\n", status.File))
	case status.Tracked:
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore\n", status.File))
	default:
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore (add to .gitignore)\n", status.File))
	}

	return result.String()
}
