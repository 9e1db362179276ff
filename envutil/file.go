package envutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFileType is returned when the file extension is not recognized.
var ErrUnknownFileType = errors.New("env file doesn't have a known file suffix")

// envFile is the layout shared by JSON and YAML env files: a top-level
// "env" object of string values.
//
//	env:
//	  NAMESORT_STRATEGY: collection
//	  LOG_LEVEL: debug
type envFile struct {
	Env map[string]string `json:"env" yaml:"env"`
}

// LoadEnvFile reads variables from a file, choosing the format by extension:
//   - .env: KEY=VALUE lines, parsed by godotenv (comments, quotes, export)
//   - .json: an object with an "env" field
//   - .yml/.yaml: a mapping with an "env" field
//
// The process environment is not modified.
func LoadEnvFile(path string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".env":
		return godotenv.Read(path)
	case ".json":
		return loadStructured(path, json.Unmarshal)
	case ".yml", ".yaml":
		return loadStructured(path, yaml.Unmarshal)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, filepath.Base(path))
	}
}

// WithEnvFile loads path and returns a context in which its variables
// override the process environment for every reader in this package.
func WithEnvFile(ctx context.Context, path string) (context.Context, error) {
	vars, err := LoadEnvFile(path)
	if err != nil {
		return ctx, err
	}

	return WithEnvOverrides(ctx, vars), nil
}

func loadStructured(path string, unmarshal func([]byte, any) error) (map[string]string, error) {
	bts, err := os.ReadFile(path) // #nosec G304 -- path is the intended file to load
	if err != nil {
		return nil, err
	}

	var out envFile

	if err := unmarshal(bts, &out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if out.Env == nil {
		return map[string]string{}, nil
	}

	return out.Env, nil
}
