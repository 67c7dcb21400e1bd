package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ndelcroix/wikimirror/internal/platform"
	"github.com/ndelcroix/wikimirror/pkg/config"
	"github.com/ndelcroix/wikimirror/pkg/fetch"
	"github.com/ndelcroix/wikimirror/pkg/logging"
	"github.com/ndelcroix/wikimirror/pkg/manifest"
	"github.com/ndelcroix/wikimirror/pkg/mirror"
	"github.com/ndelcroix/wikimirror/pkg/output"
	"github.com/ndelcroix/wikimirror/pkg/ratelimit"
	"github.com/ndelcroix/wikimirror/pkg/storage"
)

// Default file names inside the output root
const (
	defaultIndexName = "mirror_index.csv"
	defaultLogName   = "mirror_errors.log"
)

// MirrorFlags holds mirror command flags
type MirrorFlags struct {
	Manifest  string
	OutputDir string
	Parallel  int
	Timeout   int
	UserAgent string
	Bandwidth int64
	Exclude   []string
	Format    string
	NoBar     bool
	IndexFile string
	NoIndex   bool
	LogFile   string
	LogFormat string
	LogLevel  string
	NoLog     bool
}

var mirrorFlags MirrorFlags

// NewMirrorCommand creates the mirror command
func NewMirrorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Download the assets listed in a manifest",
		Long: `Download every asset listed in a manifest into the output directory.
Assets already on disk with identical content are skipped; changed assets
are overwritten. Each run appends the written files to a CSV index.`,
		RunE: runMirror,
	}

	cmd.Flags().StringVarP(&mirrorFlags.Manifest, "manifest", "m", "", "manifest file, .csv or .yaml (required)")
	cmd.MarkFlagRequired("manifest")

	cmd.Flags().StringVarP(&mirrorFlags.OutputDir, "output", "o", platform.DefaultDataDir(), "output root directory")
	cmd.Flags().IntVarP(&mirrorFlags.Parallel, "parallel", "p", 0, "number of parallel downloads (default: 10)")
	cmd.Flags().IntVar(&mirrorFlags.Timeout, "timeout", 0, "per-download timeout in seconds (default: 15)")
	cmd.Flags().StringVar(&mirrorFlags.UserAgent, "user-agent", "", "User-Agent header")
	cmd.Flags().Int64Var(&mirrorFlags.Bandwidth, "bandwidth", 0, "download bandwidth limit in bytes per second (0 = unlimited)")
	cmd.Flags().StringSliceVar(&mirrorFlags.Exclude, "exclude", []string{}, "glob patterns for destination paths to skip")
	cmd.Flags().StringVar(&mirrorFlags.Format, "format", "", "output format: human, json")
	cmd.Flags().BoolVar(&mirrorFlags.NoBar, "no-progress", false, "disable the progress bar")
	cmd.Flags().StringVar(&mirrorFlags.IndexFile, "index", "", "index file path (default: <output>/"+defaultIndexName+")")
	cmd.Flags().BoolVar(&mirrorFlags.NoIndex, "no-index", false, "do not write the index")
	cmd.Flags().StringVar(&mirrorFlags.LogFile, "log-file", "", "failure log path (default: <output>/"+defaultLogName+")")
	cmd.Flags().StringVar(&mirrorFlags.LogFormat, "log-format", "", "failure log format: text, json")
	cmd.Flags().StringVar(&mirrorFlags.LogLevel, "log-level", "", "failure log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&mirrorFlags.NoLog, "no-log", false, "disable the failure log")

	return cmd
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	console := newConsoleLogger(globalFlags.Verbose, globalFlags.Quiet)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyMirrorFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m, err := manifest.Load(mirrorFlags.Manifest)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	console.Debugf("manifest %s: %d assets", mirrorFlags.Manifest, len(m.Tasks))

	dest, err := storage.NewLocal(mirrorFlags.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to open output directory: %w", err)
	}
	defer dest.Close()

	limiter := ratelimit.NewLimiter(cfg.Fetch.BandwidthLimit)
	fetcher := fetch.NewClient(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		cfg.Fetch.UserAgent,
		limiter,
	)

	logger, err := createRunLogger(cfg, dest.Root())
	if err != nil {
		return fmt.Errorf("failed to create failure log: %w", err)
	}
	defer logger.Close()

	indexPath := ""
	if !mirrorFlags.NoIndex {
		indexPath = mirrorFlags.IndexFile
		if indexPath == "" {
			indexPath = filepath.Join(dest.Root(), defaultIndexName)
		}
	}

	engine := mirror.NewEngine(fetcher, dest, pickFormatter(cfg), logger, mirror.Options{
		ManifestPath: mirrorFlags.Manifest,
		OutputRoot:   dest.Root(),
		MaxWorkers:   cfg.Performance.MaxWorkers,
		Exclude:      append(cfg.Exclude, mirrorFlags.Exclude...),
		IndexPath:    indexPath,
		MetaColumns:  m.MetaColumns,
	})

	report, err := engine.Run(ctx, m.Tasks)
	if err != nil {
		// Downloads already on disk stay; only the index step failed
		console.Errorf("%v", err)
		os.Exit(2)
	}

	os.Exit(report.Status.ExitCode())
	return nil
}

// loadConfig loads the configuration file plus environment overrides
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		cfg, err := config.LoadFromFile(globalFlags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.LoadDefault()
}

// applyMirrorFlags overrides config values with explicit flags
func applyMirrorFlags(cfg *config.Config) {
	if mirrorFlags.Parallel > 0 {
		cfg.Performance.MaxWorkers = mirrorFlags.Parallel
	}
	if mirrorFlags.Timeout > 0 {
		cfg.Fetch.TimeoutSeconds = mirrorFlags.Timeout
	}
	if mirrorFlags.UserAgent != "" {
		cfg.Fetch.UserAgent = mirrorFlags.UserAgent
	}
	if mirrorFlags.Bandwidth > 0 {
		cfg.Fetch.BandwidthLimit = mirrorFlags.Bandwidth
	}
	if mirrorFlags.Format != "" {
		cfg.Output.Format = mirrorFlags.Format
	}
	if mirrorFlags.NoBar {
		cfg.Output.Progress = false
	}
	if globalFlags.Quiet {
		cfg.Output.Quiet = true
	}
	if mirrorFlags.LogFile != "" {
		cfg.Logging.File = mirrorFlags.LogFile
	}
	if mirrorFlags.LogFormat != "" {
		cfg.Logging.Format = mirrorFlags.LogFormat
	}
	if mirrorFlags.LogLevel != "" {
		cfg.Logging.Level = mirrorFlags.LogLevel
	}
	if mirrorFlags.NoLog {
		cfg.Logging.Enabled = false
	}
}

// pickFormatter selects the run output formatter
func pickFormatter(cfg *config.Config) output.Formatter {
	if cfg.Output.Format == "json" {
		return output.NewJSONFormatter()
	}
	if cfg.Output.Progress && !cfg.Output.Quiet && term.IsTerminal(int(os.Stdout.Fd())) {
		return output.NewProgressFormatter()
	}
	return output.NewHumanFormatter(cfg.Output.Quiet)
}

// createRunLogger creates the append-only failure log
func createRunLogger(cfg *config.Config, outputRoot string) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	path := cfg.Logging.File
	if path == "" {
		path = filepath.Join(outputRoot, defaultLogName)
	}

	format := logging.FormatText
	if cfg.Logging.Format == "json" {
		format = logging.FormatJSON
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       path,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Logging.Level),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}
