package transync

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectDirName is the per-site directory holding transync state.
const ProjectDirName = ".transync"

// ProjectDir returns <site>/.transync.
func ProjectDir(siteDir string) string {
	return filepath.Join(siteDir, ProjectDirName)
}

// RunDir holds ephemeral, git-ignored files (logs, history ledger).
func RunDir(siteDir string) string {
	return filepath.Join(ProjectDir(siteDir), ".run")
}

// DefaultExtractedDir is where the extraction step drops candidate catalogs.
func DefaultExtractedDir(siteDir string) string {
	return filepath.Join(ProjectDir(siteDir), "extracted")
}

// LogPath returns the log file for the given day stamp (YYYYMMDD).
func LogPath(siteDir, day string) string {
	return filepath.Join(RunDir(siteDir), "logs", "transync-"+day+".log")
}

// EnsureProjectDir creates .transync/ and .transync/.run/ and makes sure
// .run/ is git-ignored.
func EnsureProjectDir(siteDir string) error {
	if err := os.MkdirAll(RunDir(siteDir), 0755); err != nil {
		return err
	}

	gitignore := filepath.Join(ProjectDir(siteDir), ".gitignore")
	content, err := os.ReadFile(gitignore)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		return os.WriteFile(gitignore, []byte(".run/\n"), 0644)
	}
	if strings.Contains(string(content), ".run/") {
		return nil
	}

	f, err := os.OpenFile(gitignore, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	// Ensure .run/ starts on its own line
	if len(content) > 0 && content[len(content)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString(".run/\n")
	return err
}
