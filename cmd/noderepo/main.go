// Package main provides the noderepo CLI, a read-only inspection tool over
// a typed content repository.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fernwick/noderepo/pkg/noderepo"
	"github.com/fernwick/noderepo/pkg/noderepo/config"
	_ "github.com/fernwick/noderepo/pkg/noderepo/engine/memory"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// engineName and rootDir are set by the --engine and --root flags and
	// override the config file and environment.
	engineName string
	rootDir    string

	// repo is the attached repository, initialized on startup.
	repo *noderepo.Repository
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "noderepo",
	Short: "Inspect a typed hierarchical content repository",
	Long: `noderepo exposes a storage engine (the filesystem by default) as a
typed, hierarchical repository of nodes and properties, and lets you walk
and read it from the command line.`,
	PersistentPreRunE: initRepository,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: .noderepo.yaml)")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", "", "storage engine name (default: fs)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "repository root directory (default: working directory)")

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(typesCmd)
}

func setupLogging() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	))
}

// initRepository loads configuration and attaches the repository. Layering,
// lowest to highest: environment, config file, flags.
func initRepository(cmd *cobra.Command, args []string) error {
	setupLogging()

	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".noderepo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// An explicitly named config file must exist; the default lookup
		// may come up empty, but a malformed file still surfaces.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var opts []config.Option
	if name := firstNonEmpty(engineName, v.GetString("engine")); name != "" {
		opts = append(opts, config.WithEngine(name))
	}
	if dir := firstNonEmpty(rootDir, v.GetString("root")); dir != "" {
		opts = append(opts, config.WithRoot(dir))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	repo, err = cfg.BuildRepository()
	if err != nil {
		return err
	}

	slog.Debug("repository attached", "engine", cfg.Engine, "root", cfg.Root)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
