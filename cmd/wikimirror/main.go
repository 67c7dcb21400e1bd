package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndelcroix/wikimirror/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "wikimirror",
		Short: "Hash-verified wiki asset mirroring tool",
		Long: `wikimirror downloads the binary assets (images, audio) referenced by a
manifest into a local tree. Every download is hashed and compared against
the file already on disk, so unchanged assets are skipped and reruns are
idempotent. Written files are recorded in a CSV index for auditing.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewMirrorCommand())
	rootCmd.AddCommand(cli.NewVerifyCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
