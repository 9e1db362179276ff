package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	prompts "github.com/amp-labs/name-sorter/cli"
	"github.com/amp-labs/name-sorter/config"
	"github.com/amp-labs/name-sorter/envutil"
	"github.com/amp-labs/name-sorter/fileio"
	"github.com/amp-labs/name-sorter/logger"
	"github.com/amp-labs/name-sorter/shutdown"
	"github.com/amp-labs/name-sorter/sorter"
	"github.com/amp-labs/name-sorter/telemetry"
)

const (
	appName                 = "namesort"
	telemetryFlushTimeout   = 5 * time.Second
	flagConfig              = "config"
	flagEnvFile             = "env-file"
	flagStrategy            = "strategy"
	flagInteractive         = "interactive"
	flagMetricsFile         = "metrics-file"
	flagQuiet               = "quiet"
	envConfigFile           = "NAMESORT_CONFIG"
	strategyPromptLabel     = "Sorting strategy"
	inputPromptLabel        = "Input file"
	outputPromptLabel       = "Output file"
	overwritePromptTemplate = "%s exists, overwrite"
)

var errAborted = errors.New("aborted by user")

// asker is the slice of the prompt package the interactive mode needs.
type asker interface {
	PromptString(label, dflt string) (string, error)
	PromptConfirm(label string) (bool, error)
	Select(label string, current string, choices ...string) (string, error)
}

// newApp builds the command. Sorted names go to stdout; prompts, when
// enabled, go through ask (nil means the terminal).
func newApp(stdout io.Writer, ask asker) *cli.App {
	return &cli.App{
		Name:      appName,
		Usage:     "sort a list of names by last name, then given names",
		ArgsUsage: "[input] [output]",
		Version:   versioninfo.Short(),
		Writer:    stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "YAML file with app.input.file, app.output.file and app.service.type",
				EnvVars: []string{envConfigFile},
			},
			&cli.StringFlag{
				Name:  flagEnvFile,
				Usage: "read variables for this run from a .env, .json or .yml file, overriding the environment",
			},
			&cli.StringFlag{
				Name:    flagStrategy,
				Aliases: []string{"s"},
				Usage:   "sorting strategy: binaryTree or collection",
			},
			&cli.BoolFlag{
				Name:    flagInteractive,
				Aliases: []string{"i"},
				Usage:   "prompt for paths and strategy",
			},
			&cli.StringFlag{
				Name:  flagMetricsFile,
				Usage: "write Prometheus metrics to this file after the run",
			},
			&cli.BoolFlag{
				Name:    flagQuiet,
				Aliases: []string{"q"},
				Usage:   "do not echo sorted names to stdout",
			},
		},
		Action: func(cctx *cli.Context) error {
			if ask == nil {
				ask = prompts.NewPrompter()
			}

			return runSort(cctx, ask)
		},
	}
}

func runSort(cctx *cli.Context, ask asker) error {
	ctx := cctx.Context

	if path := cctx.String(flagEnvFile); path != "" {
		var err error

		if ctx, err = envutil.WithEnvFile(ctx, path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}

		cctx.Context = ctx
	}

	logger.ConfigureLogging(ctx, appName)

	stopTelemetry, err := setupTelemetry(ctx)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	log := logger.Get(ctx)

	cfg, err := resolveConfig(cctx, ask)
	if err != nil {
		log.Error("invalid configuration", "error", err)

		return err
	}

	if err := fileio.ValidateInput(cfg.InputFile); err != nil {
		log.Error("input file check failed", "input", cfg.InputFile, "error", err)

		return err
	}

	if err := fileio.PrepareOutput(cfg.OutputFile); err != nil {
		log.Error("output file check failed", "output", cfg.OutputFile, "error", err)

		return err
	}

	kind, err := cfg.Kind()
	if err != nil {
		return err
	}

	svc, err := sorter.New(kind)
	if err != nil {
		return err
	}

	res, err := svc.SortFile(ctx, cfg.InputFile, cfg.OutputFile)
	if err != nil {
		log.Error("sorting failed", "error", err)

		return err
	}

	if !cctx.Bool(flagQuiet) {
		if err := echo(cctx.App.Writer, res.Lines); err != nil {
			return err
		}
	}

	if path := cctx.String(flagMetricsFile); path != "" {
		if err := telemetry.WriteMetrics(path); err != nil {
			log.Error("writing metrics failed", "error", err)

			return err
		}
	}

	return nil
}

// setupTelemetry starts OpenTelemetry when configured and, if it exports
// logs, reconfigures logging to feed it. The returned func flushes and
// stops the exporters; it also runs as a shutdown hook so that an
// interrupted run still flushes.
func setupTelemetry(ctx context.Context) (func(), error) {
	tcfg, err := telemetry.LoadConfigFromEnv(ctx)
	if err != nil {
		return nil, err
	}

	handler, err := telemetry.Initialize(ctx, tcfg)
	if err != nil {
		return nil, err
	}

	stop := func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
		defer cancel()

		if err := telemetry.Shutdown(flushCtx); err != nil {
			logger.Get(ctx).Warn("telemetry shutdown failed", "error", err)
		}
	}

	if handler != nil {
		logger.ConfigureLogging(ctx, appName, logger.WithExtraHandler(handler))
		shutdown.BeforeShutdown(stop)
	}

	return stop, nil
}

// resolveConfig layers the configuration file, the environment, the
// positional arguments, the strategy flag and, last, interactive answers.
func resolveConfig(cctx *cli.Context, ask asker) (config.Config, error) {
	cfg, err := config.Load(cctx.Context, cctx.String(flagConfig))
	if err != nil {
		return cfg, err
	}

	cfg = cfg.WithArgs(cctx.Args().Slice()...)

	if cctx.IsSet(flagStrategy) {
		cfg.Strategy = cctx.String(flagStrategy)
	}

	if cctx.Bool(flagInteractive) {
		cfg, err = promptConfig(cfg, ask)
		if err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}

func promptConfig(cfg config.Config, ask asker) (config.Config, error) {
	var err error

	if cfg.InputFile, err = ask.PromptString(inputPromptLabel, cfg.InputFile); err != nil {
		return cfg, err
	}

	if cfg.OutputFile, err = ask.PromptString(outputPromptLabel, cfg.OutputFile); err != nil {
		return cfg, err
	}

	kinds := sorter.Kinds()
	choices := make([]string, len(kinds))

	for i, k := range kinds {
		choices[i] = k.String()
	}

	if cfg.Strategy, err = ask.Select(strategyPromptLabel, cfg.Strategy, choices...); err != nil {
		return cfg, err
	}

	if _, statErr := os.Stat(cfg.OutputFile); statErr == nil {
		ok, err := ask.PromptConfirm(fmt.Sprintf(overwritePromptTemplate, cfg.OutputFile))
		if err != nil {
			return cfg, err
		}

		if !ok {
			return cfg, errAborted
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return cfg, statErr
	}

	return cfg, nil
}

func echo(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)

	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}

	return bw.Flush()
}
