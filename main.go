package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/helmcode/profile-comparator/cmd"
	"github.com/helmcode/profile-comparator/pkg/config"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(cmd.NewApp())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(app *cmd.App) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "profile-comparator",
		Short: "Analyze and compare local business profiles",
		Long: `profile-comparator scores a business's online profile and compares it with
a competitor, using the comparator analysis API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if c.Name() == "version" {
				return nil
			}
			v := config.New(configFile)
			flags := c.Root().PersistentFlags()
			for key, flag := range map[string]string{
				"api.base_url": "api-url",
				"api.timeout":  "timeout",
				"log.level":    "log-level",
			} {
				if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
					return err
				}
			}
			return app.Init(v)
		},
		PersistentPostRun: func(c *cobra.Command, args []string) {
			app.Sync()
		},
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./config.yaml or $HOME/.profile-comparator/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "Comparator API base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (overrides api.timeout)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides log.level)")

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewAnalyzeCmd(app),
		cmd.NewCompareCmd(app),
		cmd.NewSessionCmd(app),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "profile-comparator version %s\n", version)
		},
	}
}
