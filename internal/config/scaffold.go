package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// gitignoreEntry keeps journal backups out of version control; the journal
// itself is meant to be committed.
const gitignoreEntry = ".rxp/backups/"

// ScaffoldProject prepares dir for pattern construction: rxp.toml, the
// journal directory and a .gitignore entry for journal backups. Files that
// already exist are left untouched. Returns the list of created or updated
// paths.
func ScaffoldProject(dir string) ([]string, error) {
	var created []string

	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	journalDir := filepath.Join(dir, filepath.Dir(DefaultJournal))
	if _, err := os.Stat(journalDir); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(journalDir, 0755); mkErr != nil {
			return created, fmt.Errorf("scaffold: create %s: %w", journalDir, mkErr)
		}
		created = append(created, journalDir)
	}

	gitignorePath := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	switch {
	case os.IsNotExist(err):
		if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreEntry+"\n"), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	case err != nil:
		return created, fmt.Errorf("scaffold: read %s: %w", gitignorePath, err)
	case !strings.Contains(string(existing), gitignoreEntry):
		content := string(existing)
		if len(content) > 0 && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += gitignoreEntry + "\n"
		if writeErr := os.WriteFile(gitignorePath, []byte(content), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	}

	return created, nil
}
