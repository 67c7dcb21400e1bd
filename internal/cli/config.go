package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndelcroix/wikimirror/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or modify wikimirror configuration.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Max Workers:     %d\n", cfg.Performance.MaxWorkers)
			fmt.Printf("Fetch Timeout:   %ds\n", cfg.Fetch.TimeoutSeconds)
			fmt.Printf("User-Agent:      %s\n", cfg.Fetch.UserAgent)
			fmt.Printf("Bandwidth Limit: %d\n", cfg.Fetch.BandwidthLimit)
			fmt.Printf("Output Format:   %s\n", cfg.Output.Format)
			fmt.Printf("Log Format:      %s\n", cfg.Logging.Format)
			fmt.Printf("Log Level:       %s\n", cfg.Logging.Level)
			if len(cfg.Exclude) > 0 {
				fmt.Printf("Exclude:         %v\n", cfg.Exclude)
			}

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Printf("Configuration file created at: %s\n", path)
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
