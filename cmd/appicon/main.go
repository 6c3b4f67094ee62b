package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nvr-ai/appicon/config"
	"github.com/nvr-ai/appicon/internal/ctxlog"
)

// options holds the parsed command line.
type options struct {
	input     string
	inputDir  string
	manifest  string
	envFile   string
	jobs      int
	watch     bool
	debug     bool
	overrides config.Defaults
}

func main() {
	var (
		input      = flag.String("input", "", "Path to the source image (or pass it as the only argument)")
		inputDir   = flag.String("input-dir", "", "Generate icons for every image in this directory")
		manifest   = flag.String("config", "", "Path to a YAML manifest of icon jobs")
		outputDir  = flag.String("output", "", "Output directory (default \"icons\", env "+config.EnvOutputDir+")")
		size       = flag.String("size", "", "Icon size: all, 1024, 512, 256, 128 or any positive integer (default \"all\", env "+config.EnvSize+")")
		background = flag.String("background", "", "Background color (CSS name or hex), or \"none\" for transparent corners (default \"#FFF\", env "+config.EnvBackground+")")
		filter     = flag.String("filter", "", "Resampling filter: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3 (default \"lanczos3\", env "+config.EnvFilter+")")
		envFile    = flag.String("env-file", "", "Load environment defaults from this file (default ./.env if present)")
		jobs       = flag.Int("jobs", 1, "Number of images processed concurrently in batch mode")
		watch      = flag.Bool("watch", false, "Regenerate icons whenever a source image changes")
		debug      = flag.Bool("debug", false, "Log per-stage timings")
	)
	flag.Parse()

	opts := options{
		input:    *input,
		inputDir: *inputDir,
		manifest: *manifest,
		envFile:  *envFile,
		jobs:     *jobs,
		watch:    *watch,
		debug:    *debug,
		overrides: config.Defaults{
			OutputDir:  *outputDir,
			Size:       *size,
			Background: *background,
			Filter:     *filter,
		},
	}
	if opts.input == "" && flag.NArg() == 1 {
		opts.input = flag.Arg(0)
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	if err := run(ctx, opts); err != nil {
		log.Fatalf("appicon: %v", err)
	}
}

// run resolves the tasks described by opts, generates them and, in watch
// mode, keeps regenerating until ctx is done.
func run(ctx context.Context, opts options) error {
	if err := loadEnv(opts.envFile); err != nil {
		return err
	}

	tasks, err := collectTasks(opts)
	if err != nil {
		return err
	}

	r := newRunner(opts.jobs, opts.debug)
	if err := r.run(ctx, tasks); err != nil {
		return err
	}

	if !opts.watch {
		return nil
	}
	return watchTasks(ctx, r, tasks)
}

func loadEnv(file string) error {
	if file == "" {
		return config.LoadEnv()
	}
	return config.LoadEnv(file)
}

// collectTasks builds the task list for whichever input mode opts selects.
// Flag values take precedence over the environment, which takes precedence
// over the builtin defaults. Manifest settings take precedence over all of
// them.
func collectTasks(opts options) ([]config.Task, error) {
	defaults := opts.overrides.Merge(config.FromEnv()).Merge(config.Builtin())

	modes := 0
	for _, set := range []bool{opts.input != "", opts.inputDir != "", opts.manifest != ""} {
		if set {
			modes++
		}
	}
	switch {
	case modes == 0:
		return nil, fmt.Errorf("an input is required (-input, -input-dir or -config)")
	case modes > 1:
		return nil, fmt.Errorf("-input, -input-dir and -config are mutually exclusive")
	}

	switch {
	case opts.manifest != "":
		m, err := config.Load(opts.manifest)
		if err != nil {
			return nil, err
		}
		return m.Tasks(defaults)

	case opts.inputDir != "":
		return directoryTasks(opts.inputDir, defaults)

	default:
		task, err := defaults.Task(opts.input)
		if err != nil {
			return nil, err
		}
		return []config.Task{task}, nil
	}
}

func init() {
	flag.Usage = func() {
		name := filepath.Base(os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [input]\n\n", name)
		fmt.Fprintf(os.Stderr, "Generates Apple-style rounded-rectangle app icons from a source image.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -output build/icons logo.png\n", name)
		fmt.Fprintf(os.Stderr, "  %s -size 512 -background none logo.png\n", name)
		fmt.Fprintf(os.Stderr, "  %s -input-dir assets -jobs 4 -output build/icons\n", name)
		fmt.Fprintf(os.Stderr, "  %s -config icons.yaml -watch\n", name)
	}
}
