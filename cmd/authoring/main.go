// Package main is the entry point for the authoring CLI
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-authoring/internal/config"
	"github.com/KirkDiggler/rpg-authoring/internal/logger"
)

var (
	// Config override flags
	envFile   string
	backend   string
	redisAddr string
	apiURL    string
	debounce  time.Duration

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "authoring",
	Short: "Game draft authoring tools",
	Long: `Authoring edits game drafts locally and keeps them in sync with the
persistence service: character sheets, the submission gate and scripted
editing sessions.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "persistence backend: redis or http")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Redis address or redis:// URL")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "authoring service base URL")
	rootCmd.PersistentFlags().DurationVar(&debounce, "debounce", 0, "quiet period before an edit is saved")

	rootCmd.AddCommand(sheetCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig reads the environment and applies any flag overrides
func loadConfig(cmd *cobra.Command, _ []string) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	loaded, err := config.Load(files...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		loaded.Backend = backend
	}
	if flags.Changed("redis") {
		loaded.RedisAddr = redisAddr
	}
	if flags.Changed("api-url") {
		loaded.APIURL = apiURL
	}
	if flags.Changed("debounce") {
		loaded.Debounce = debounce
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg = loaded
	logger.Setup(cfg)
	return nil
}
