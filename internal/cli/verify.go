package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndelcroix/wikimirror/internal/platform"
	"github.com/ndelcroix/wikimirror/pkg/fetch"
	"github.com/ndelcroix/wikimirror/pkg/index"
	"github.com/ndelcroix/wikimirror/pkg/mirror"
	"github.com/ndelcroix/wikimirror/pkg/ratelimit"
	"github.com/ndelcroix/wikimirror/pkg/storage"
)

// VerifyFlags holds verify command flags
type VerifyFlags struct {
	OutputDir string
	IndexFile string
	Repair    bool
}

var verifyFlags VerifyFlags

// NewVerifyCommand creates the verify command
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the mirrored tree against the index",
		Long: `Recompute the digest of every file recorded in the index and report
files that are missing or whose content no longer matches. With --repair,
the broken subset is re-downloaded through the normal pipeline.`,
		RunE: runVerify,
	}

	cmd.Flags().StringVarP(&verifyFlags.OutputDir, "output", "o", platform.DefaultDataDir(), "output root directory")
	cmd.Flags().StringVar(&verifyFlags.IndexFile, "index", "", "index file path (default: <output>/"+defaultIndexName+")")
	cmd.Flags().BoolVar(&verifyFlags.Repair, "repair", false, "re-download files that fail verification")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	console := newConsoleLogger(globalFlags.Verbose, globalFlags.Quiet)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dest, err := storage.NewLocal(verifyFlags.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to open output directory: %w", err)
	}
	defer dest.Close()

	indexPath := verifyFlags.IndexFile
	if indexPath == "" {
		indexPath = filepath.Join(dest.Root(), defaultIndexName)
	}

	records, err := index.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	console.Debugf("index %s: %d records", indexPath, len(records))

	issues, err := mirror.Verify(ctx, dest, records)
	if err != nil {
		return fmt.Errorf("verification aborted: %w", err)
	}

	if len(issues) == 0 {
		fmt.Printf("Verified %d files, all good.\n", len(records))
		return nil
	}

	for _, issue := range issues {
		fmt.Printf("%s: %s\n", issue.Filename, issue.Reason)
	}
	fmt.Printf("%d of %d files failed verification.\n", len(issues), len(records))

	if !verifyFlags.Repair {
		os.Exit(1)
	}

	console.Infof("re-downloading %d files", len(issues))

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

	// Repaired files are already in the index; no index append here
	engine := mirror.NewEngine(fetcher, dest, pickFormatter(cfg), logger, mirror.Options{
		OutputRoot: dest.Root(),
		MaxWorkers: cfg.Performance.MaxWorkers,
	})

	report, err := engine.Run(ctx, mirror.RepairTasks(issues))
	if err != nil {
		return err
	}

	os.Exit(report.Status.ExitCode())
	return nil
}
