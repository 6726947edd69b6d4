package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hexrift/wad"
	"github.com/hexrift/wad/internal/config"
	"github.com/hexrift/wad/internal/hashtab"
	"github.com/hexrift/wad/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wadx",
	Short: "Extract WAD game archives to a directory tree",
	RunE:  extract,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	// i/o
	rootCmd.Flags().StringP("input", "i", "", "path to .wad file to extract (required)")
	rootCmd.Flags().StringP("output", "o", "", "directory to extract into (required)")
	rootCmd.Flags().String("hashes", "", "directory containing hash tables (hashes.game.txt, ...)")
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")

	// extraction settings
	rootCmd.Flags().Bool("replace", true, "overwrite files that already exist in the output")
	rootCmd.Flags().Int("decompress-workers", wad.DefaultDecompressWorkers, "decompression worker count")
	rootCmd.Flags().Int("write-slots", wad.DefaultWriteSlots, "bound on decompressed chunks awaiting write")

	// other opts
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stdout and file)")

	viper.BindPFlag("input", rootCmd.Flags().Lookup("input"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("hashes", rootCmd.Flags().Lookup("hashes"))
	viper.BindPFlag("replace", rootCmd.Flags().Lookup("replace"))
	viper.BindPFlag("decompress_workers", rootCmd.Flags().Lookup("decompress-workers"))
	viper.BindPFlag("write_slots", rootCmd.Flags().Lookup("write-slots"))
	viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log_output_dir", rootCmd.Flags().Lookup("log-output-dir"))
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wadx"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("WADX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// extract runs the main wadx command
func extract(cmd *cobra.Command, args []string) error {
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogOutputDir); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}

	opts := []wad.Option{
		wad.WithLogger(slog.Default()),
		wad.WithEvents(logEvent),
		wad.WithReplaceExisting(cfg.Replace),
		wad.WithDecompressWorkers(cfg.DecompressWorkers),
		wad.WithWriteSlots(cfg.WriteSlots),
	}

	if cfg.HashesDir != "" {
		lookup, err := hashtab.LoadDir(cfg.HashesDir)
		if err != nil {
			return err
		}
		total := 0
		for _, table := range lookup {
			total += len(table)
		}
		slog.Info("loaded hash tables", "tables", len(lookup), "entries", total)
		opts = append(opts, wad.WithLookup(lookup))
	}

	slog.Info("extracting archive", "input", cfg.InputFile, "output", cfg.OutputDir)

	res, err := wad.NewExtractor(opts...).Extract(cmd.Context(), cfg.InputFile, cfg.OutputDir)
	if err != nil {
		return err
	}

	slog.Info("extraction finished",
		"extracted", res.ExtractedCount,
		"skipped", res.SkippedCount,
		"output", res.OutputRoot)
	if res.HashFallback {
		slog.Info("some chunks kept hash-derived names", "sidecar", wad.SidecarName)
	}
	return nil
}

// logEvent forwards engine events to the global logger.
func logEvent(e wad.Event) {
	switch e.Kind {
	case wad.EventProgress:
		slog.Info("progress", "written", e.Written, "total", e.Total)
	case wad.EventWarning:
		slog.Warn(e.Message, "hash", e.Hash)
	case wad.EventFallbackNamed:
		slog.Info("hash-named chunk", "path", e.Path, "hash", e.Hash)
	case wad.EventSkipped:
		slog.Warn("chunk skipped", "hash", e.Hash, "reason", e.Message)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
