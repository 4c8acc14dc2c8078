package util

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const defaultRepoName = ".oracle-gateway"

// DefaultRepoDir is where the gateway keeps its config file unless --repo
// says otherwise.
func DefaultRepoDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate the user home directory")
	}
	return filepath.Join(home, defaultRepoName), nil
}

// EnsureRepoDir creates the repo directory if it does not exist yet.
func EnsureRepoDir(path string) error {
	return errors.Wrap(os.MkdirAll(path, os.FileMode(0o700)), "failed to create the repo directory")
}
