// Package config resolves where names are read from, where they are
// written, and which strategy sorts them.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amp-labs/name-sorter/envutil"
	"github.com/amp-labs/name-sorter/sorter"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInputFile  = "./names.txt"
	DefaultOutputFile = "./sorted-names-list.txt"
	DefaultStrategy   = sorter.BinaryTree
)

// Environment variables consulted by Load.
const (
	EnvInputFile  = "NAMESORT_INPUT_FILE"
	EnvOutputFile = "NAMESORT_OUTPUT_FILE"
	EnvStrategy   = "NAMESORT_STRATEGY"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrConfigFile    = errors.New("cannot load configuration file")
)

// Config is the resolved run configuration.
type Config struct {
	InputFile  string
	OutputFile string
	Strategy   string
}

// file mirrors the YAML layout:
//
//	app:
//	  input:
//	    file: ./names.txt
//	  output:
//	    file: ./sorted-names-list.txt
//	  service:
//	    type: binaryTree
type file struct {
	App struct {
		Input struct {
			File string `yaml:"file"`
		} `yaml:"input"`
		Output struct {
			File string `yaml:"file"`
		} `yaml:"output"`
		Service struct {
			Type string `yaml:"type"`
		} `yaml:"service"`
	} `yaml:"app"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		InputFile:  DefaultInputFile,
		OutputFile: DefaultOutputFile,
		Strategy:   DefaultStrategy.String(),
	}
}

// Load layers, lowest priority first: Default, the YAML file at path (when
// path is not empty) and the NAMESORT_* environment variables. Empty values
// never override. An unknown NAMESORT_STRATEGY fails with ErrInvalidConfig.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	envutil.String(ctx, EnvInputFile).DoWithValue(cfg.setInput)
	envutil.String(ctx, EnvOutputFile).DoWithValue(cfg.setOutput)

	strategy := envutil.String(ctx, EnvStrategy, envutil.Validate(checkStrategy))
	if strategy.HasError() {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvStrategy, strategy.Error())
	}

	strategy.DoWithValue(cfg.setStrategy)

	return cfg, nil
}

func checkStrategy(v string) error {
	_, err := sorter.ParseKind(v)

	return err
}

func (c *Config) mergeFile(path string) error {
	f, err := os.Open(path) // #nosec G304 -- the configuration file named by the user
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigFile, err)
	}
	defer f.Close() //nolint:errcheck

	var doc file

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
	}

	c.setInput(doc.App.Input.File)
	c.setOutput(doc.App.Output.File)
	c.setStrategy(doc.App.Service.Type)

	return nil
}

func (c *Config) setInput(v string) {
	if v = strings.TrimSpace(v); v != "" {
		c.InputFile = v
	}
}

func (c *Config) setOutput(v string) {
	if v = strings.TrimSpace(v); v != "" {
		c.OutputFile = v
	}
}

func (c *Config) setStrategy(v string) {
	if v = strings.TrimSpace(v); v != "" {
		c.Strategy = v
	}
}

// WithArgs applies positional arguments: the first replaces the input
// file, the second the output file. Further arguments are ignored.
func (c Config) WithArgs(args ...string) Config {
	if len(args) > 0 {
		c.setInput(args[0])
	}

	if len(args) > 1 {
		c.setOutput(args[1])
	}

	return c
}

// Kind returns the parsed strategy.
func (c Config) Kind() (sorter.Kind, error) {
	return sorter.ParseKind(c.Strategy)
}

// Validate rejects empty paths and unknown strategies.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.InputFile) == "" {
		errs = append(errs, fmt.Errorf("%w: input file is empty", ErrInvalidConfig))
	}

	if strings.TrimSpace(c.OutputFile) == "" {
		errs = append(errs, fmt.Errorf("%w: output file is empty", ErrInvalidConfig))
	}

	if _, err := c.Kind(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	return errors.Join(errs...)
}
