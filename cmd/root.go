package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medlens/internal/config"
	"medlens/internal/logger"
)

var version = "1.0.0"

var (
	appConfig *config.Config
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "medlens",
	Short: "MedLens - medical report extraction and explanation backend",
	Long: `MedLens turns uploaded medical reports (PDF, JPEG, PNG) into plain text and
passes that text to AI services that simplify it, answer questions about it,
translate it and read it aloud.

Run "medlens serve" to start the HTTP API or "medlens extract" to pull the
text out of a single document from the command line.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("MedLens CLI executed")

		fmt.Println("Welcome to MedLens!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command with the configuration loaded by main.
// A nil cfg with a non-nil err makes every command that needs configuration fail with err.
func Execute(cfg *config.Config, err error) {
	appConfig, configErr = cfg, err
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// requireConfig returns the loaded configuration or the reason it is missing.
func requireConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	if configErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", configErr)
	}
	return nil, errors.New("configuration not loaded")
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
