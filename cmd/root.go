// Package cmd provides the root command and CLI setup for auditor.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/auditor/internal/adapter"
	"github.com/mouse-blink/auditor/internal/controller"
	"github.com/mouse-blink/auditor/internal/domain"
	m "github.com/mouse-blink/auditor/internal/model"
)

const defaultReportsDir = ".auditor-reports"

var logLevel = new(slog.LevelVar)
var logger *slog.Logger
var fsAdapter adapter.SourceFSAdapter
var loader adapter.DocumentLoader
var reportStore adapter.ReportStore
var configStore adapter.ConfigStore
var analyzer domain.Analyzer
var workflow domain.Workflow
var ui controller.UI

func init() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	loader = adapter.NewDocumentLoader(logger)
	reportStore = adapter.NewReportStore()
	configStore = adapter.NewConfigStore(logger)
	analyzer = domain.NewAnalyzer(logger)
	workflow = domain.NewWorkflow(
		fsAdapter,
		loader,
		reportStore,
		ui,
		analyzer,
		logger,
	)
}

var configFlag string
var reportsOutputDirFlag string
var verboseFlag bool
var parallelFlag int
var appIDFlag string
var failOnFlag string
var excludeFlags []string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

const runLongDescription = `Analyze Workday Extend application files for script complexity,
hardcoded identifiers and document structure issues.

Accepts files, directories and .zip archives. Directory paths support the
Go-style recursive suffix:
  - ./...             recursively scan current directory
  - ./app/...         recursively scan app directory
  - ./app.zip         read every relevant file inside the archive

Configuration is read from --config, or from the nearest auditor.toml.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "auditor [paths...]",
		Short:        "Static analysis for Workday Extend applications",
		Long:         runLongDescription,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verboseFlag {
				logLevel.Set(slog.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd.Context(), args, parallelFlag, appIDFlag, failOnFlag, excludeFlags)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to an auditor.toml configuration file")
	cmd.PersistentFlags().StringVarP(&reportsOutputDirFlag, "reports", "r", defaultReportsDir, "directory where reports are saved")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log debug details to stderr")
	cmd.Flags().IntVarP(&parallelFlag, "parallel", "p", 0, "number of documents analyzed in parallel (0 = all CPUs)")
	cmd.Flags().StringVar(&appIDFlag, "app-id", "", "application id to look for instead of the one in the .smd file")
	cmd.Flags().StringVar(&failOnFlag, "fail-on", "", "exit non-zero when a finding reaches this severity (INFO, ADVICE, WARNING, ERROR)")
	cmd.Flags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func runAnalysis(ctx context.Context, args []string, threads int, appID, failOn string, exclude []string) error {
	cfg := loadConfig()

	if appID != "" {
		cfg.ApplicationID = appID
	}

	if failOn != "" {
		sev, err := m.ParseSeverity(failOn)
		if err != nil {
			return err
		}

		cfg.FailOn = sev
	}

	return workflow.Analyze(ctx, domain.AnalyzeArgs{
		Paths:   parsePaths(args),
		Exclude: exclude,
		Config:  cfg,
		Threads: threads,
		Reports: m.Path(reportsOutputDirFlag),
	})
}

// loadConfig never fails: problems are logged and defaults are used.
func loadConfig() m.Config {
	path := m.Path(configFlag)

	if path == "" {
		found, err := configStore.Find(".")
		if err != nil {
			logger.Warn("looking up configuration", "error", err)
		}

		path = found
	}

	cfg, err := configStore.Load(path)
	if err != nil {
		logger.Warn("using default configuration", "error", err)
	}

	return cfg
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"./..."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			paths = append(paths, m.Path(arg))
		}
	}

	return paths
}
