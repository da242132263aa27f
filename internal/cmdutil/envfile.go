package cmdutil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexandremahdhaoui/ez-relink/pkg/flaterrors"
)

var errLoadingEnvFile = errors.New("loading env file")

// LoadEnvFile loads environment variables from a file.
//
// Supported formats:
//   - KEY=VALUE
//   - export KEY=VALUE
//   - KEY="VALUE with spaces"
//   - # comments
//
// Empty lines and comments (starting with #) are skipped.
// If the file doesn't exist, returns an empty map (not an error).
func LoadEnvFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, flaterrors.Join(err, errLoadingEnvFile)
	}

	envVars := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, flaterrors.Join(
				fmt.Errorf("invalid format at %s:%d: %s", path, lineNum, line), //nolint:err113
				errLoadingEnvFile)
		}

		envVars[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, flaterrors.Join(err, errLoadingEnvFile)
	}

	return envVars, nil
}

// MergeEnv returns base with the entries of fallback that base does not set.
// Neither map is modified.
func MergeEnv(base, fallback map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(fallback))
	for key, value := range fallback {
		out[key] = value
	}

	for key, value := range base {
		out[key] = value
	}

	return out
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}

	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}

	return value
}
