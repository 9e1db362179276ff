// Package startup loads environment files into the process environment
// before the rest of the program reads its configuration.
package startup

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/amp-labs/name-sorter/envutil"
)

// EnvFileVar names a semicolon-separated list of env files to load.
const EnvFileVar = "ENV_FILE"

// Option is a functional option for configuring environment loading behavior.
type Option func(*options)

type options struct {
	// allowOverride lets file values replace variables already set in the
	// process. Existing variables win by default.
	allowOverride bool
}

// WithAllowOverride configures whether loaded variables can replace
// existing environment variables.
func WithAllowOverride(allowOverride bool) Option {
	return func(o *options) {
		o.allowOverride = allowOverride
	}
}

// ConfigureEnvironment loads every file listed in ENV_FILE, in order, into
// the process environment. Any format envutil.LoadEnvFile understands may
// be used:
//
//	ENV_FILE="base.env;local.yml" namesort names.txt
func ConfigureEnvironment(ctx context.Context, opts ...Option) error {
	envFiles := envutil.Map(envutil.String(ctx, EnvFileVar), splitEnvFileList).ValueOrElse(nil)

	return ConfigureEnvironmentFromFiles(envFiles, opts...)
}

// ConfigureEnvironmentFromFiles loads the given files into the process
// environment. Later files win over earlier ones.
func ConfigureEnvironmentFromFiles(envFiles []string, opts ...Option) error {
	cfg := &options{}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	merged := make(map[string]string)

	for _, file := range envFiles {
		vars, err := envutil.LoadEnvFile(file)
		if err != nil {
			return fmt.Errorf("loading environment variables from file %q: %w", file, err)
		}

		for k, v := range vars {
			merged[k] = v
		}
	}

	for k, v := range merged {
		oldValue, exists := os.LookupEnv(k)
		if exists && (!cfg.allowOverride || oldValue == v) {
			continue
		}

		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("setting environment variable %q: %w", k, err)
		}
	}

	return nil
}

func splitEnvFileList(in string) ([]string, error) {
	var out []string

	for s := range strings.SplitSeq(in, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out, nil
}
