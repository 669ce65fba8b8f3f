package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultDotEnvFile = ".env"

// loadDotEnv loads the file named by DOTENV_FILE (".env" by default) into
// the environment and returns its path. A missing file is not an error and
// yields "". Variables already set in the process are not overridden.
func loadDotEnv() (string, error) {
	path := strings.TrimSpace(os.Getenv("DOTENV_FILE"))
	if path == "" {
		path = defaultDotEnvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return path, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	return "", fmt.Errorf("load %s: %w", path, err)
}
