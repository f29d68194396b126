// finvizlite scrapes finviz.com quote pages from the command line.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seenimoa/finvizlite/api"
	"github.com/seenimoa/finvizlite/internal/config"
	"github.com/seenimoa/finvizlite/internal/finviz"
	"github.com/seenimoa/finvizlite/internal/logger"
	"github.com/seenimoa/finvizlite/internal/recorder"
	"github.com/seenimoa/finvizlite/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Shared state, set up in PersistentPreRunE.
var (
	cfg    *config.Config
	log    *logrus.Logger
	client *finviz.Client
	rec    recorder.Recorder = recorder.NewNoopRecorder()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finvizlite",
	Short: "finvizlite — finviz.com quote page scraper",
	Long: `finvizlite fetches a finviz.com quote page and extracts the
fundamentals snapshot, news, analyst ratings, company description and
chart images. It can also serve the same data over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := applyFlagOverrides(cmd, cfg); err != nil {
			return err
		}

		log, err = logger.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		client = finviz.NewClient(
			finviz.WithBaseURL(cfg.Finviz.BaseURL),
			finviz.WithUserAgent(cfg.Finviz.UserAgent),
			finviz.WithTimeout(cfg.Finviz.Timeout()),
			finviz.WithLogger(log),
		)

		rec, err = recorder.Open(cfg.Recorder.SQLitePath, log)
		if err != nil {
			return fmt.Errorf("failed to open recorder: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return rec.Close()
	},
}

// applyFlagOverrides copies persistent flags that were set on the command
// line into cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("json") {
		if asJSON, _ := flags.GetBool("json"); asJSON {
			cfg.Output.Format = "json"
		} else {
			cfg.Output.Format = "text"
		}
	}
	if flags.Changed("record") {
		cfg.Recorder.SQLitePath, _ = flags.GetString("record")
	}
	return cfg.Validate()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "print JSON instead of text")
	rootCmd.PersistentFlags().String("record", "", "record snapshots into this SQLite file (overrides recorder.sqlite_path)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(fundamentalsCmd)
	rootCmd.AddCommand(descriptionCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finvizlite %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show market status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		recording := "off"
		if cfg.Recorder.SQLitePath != "" {
			recording = cfg.Recorder.SQLitePath
		}

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  finvizlite — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (ET):     %s\n", utils.FormatDateTimeET(utils.NowET()))
		fmt.Println()
		fmt.Println("  Configuration:")
		fmt.Printf("    Base URL:      %s\n", cfg.Finviz.BaseURL)
		fmt.Printf("    Timeout:       %s\n", cfg.Finviz.Timeout())
		fmt.Printf("    Chart:         %s / %s → %s\n", cfg.Chart.Timeframe, cfg.Chart.Type, cfg.Chart.OutDir)
		fmt.Printf("    Output:        %s (raw: %v)\n", cfg.Output.Format, cfg.Output.Raw)
		fmt.Printf("    Batch:         %d concurrent\n", cfg.Batch.Concurrency)
		fmt.Printf("    Recorder:      %s\n", recording)
		fmt.Printf("    API Server:    %s\n", cfg.API.Addr())
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.API.Port, _ = cmd.Flags().GetInt("port")
		}

		api.Version = version
		srv := api.NewServer(cfg, client, log)
		srv.SetRecorder(rec)
		return srv.ListenAndServe(cmd.Context(), cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides api.port)")
}
