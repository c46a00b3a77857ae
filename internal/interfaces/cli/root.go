// Package cli implements the chemalyzer command-line interface. Commands
// run the analysis engine in-process by default and switch to a remote API
// server when --server is given, producing identical records either way.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moleculab/chemalyzer/internal/application/analysis"
	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/domain/compound"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	"github.com/moleculab/chemalyzer/pkg/client"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key under which CLIContext travels.
type cliContextKey struct{}

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
	ServerAddr   string
}

// NewRootCommand creates the chemalyzer root command with all global flags
// and subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "chemalyzer",
		Short: "Chemalyzer — molecular structure and property analysis",
		Long: "Chemalyzer resolves compound names, SMILES strings and natural-language\n" +
			"queries into molecular graphs, then computes physicochemical descriptors,\n" +
			"drug-likeness rules, ADMET heuristics and 3D conformer structures.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./chemalyzer.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "per-command timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "analyze via a running API server instead of the embedded engine (e.g. http://localhost:8080)")

	cmd.AddCommand(
		newAnalyzeCmd(),
		newCompoundsCmd(),
		newCompareCmd(),
		newVersionCmd(),
	)

	return cmd
}

// persistentPreRun loads configuration, builds the CLI logger and stores a
// CLIContext on the command's context for subcommands to pick up.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	format := strings.ToLower(opts.OutputFormat)
	if format != "text" && format != "json" {
		return apperrors.InvalidParam(fmt.Sprintf("unsupported output format %q (text, json)", opts.OutputFormat))
	}

	if opts.NoColor || format == "json" {
		color.NoColor = true
	}

	cfg, err := loadCLIConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := newCLILogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: format,
		Verbose:      opts.Verbose,
		Timeout:      opts.Timeout,
		ServerAddr:   strings.TrimSpace(opts.ServerAddr),
	}

	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// loadCLIConfig loads configuration with priority: --config flag, then the
// default search paths, then environment variables over built-in defaults.
func loadCLIConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./chemalyzer.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".chemalyzer", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/chemalyzer/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}

	return config.LoadFromEnv()
}

// newCLILogger builds a console logger on stderr so stdout stays clean for
// piped command output.
func newCLILogger(opts *RootOptions) (logging.Logger, error) {
	level := opts.LogLevel
	if opts.Verbose {
		level = "debug"
	}

	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// getCLIContext extracts the CLIContext stored by persistentPreRun.
func getCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, apperrors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, apperrors.Internal("CLI context not initialized")
	}
	return cliCtx, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Runner — embedded engine or remote server
// ─────────────────────────────────────────────────────────────────────────────

// runner abstracts where analysis executes. Commands render the results the
// same way regardless of which side computed them.
type runner interface {
	Analyze(ctx context.Context, query string) (*types.CompoundAnalysis, error)
	Compare(ctx context.Context, query1, query2 string) (*types.SimilarityReport, error)
	Compounds(ctx context.Context) ([]string, error)

	// Suggest returns candidate compound names after a failed lookup. The
	// remote runner returns nil; its suggestions arrive on the API error.
	Suggest(query string) []string
}

// newRunner builds the embedded engine, or a remote API client when
// --server was given. disable3D applies to the embedded engine only; a
// remote server keeps its own configuration.
func (c *CLIContext) newRunner(disable3D bool) (runner, error) {
	if c.ServerAddr != "" {
		api, err := client.NewClient(c.ServerAddr, client.WithTimeout(c.Timeout))
		if err != nil {
			return nil, err
		}
		return remoteRunner{api: api}, nil
	}

	log := c.Logger.Named("engine")

	lib := compound.NewLibrary(log)
	if path := c.Config.Compounds.Path; path != "" {
		if err := lib.LoadOverlay(path); err != nil {
			log.Warn("compound overlay not loaded",
				logging.String("path", path), logging.Err(err))
		}
	}

	engineCfg := c.Config.Engine
	if disable3D {
		engineCfg.Disable3D = true
	}

	svc := analysis.NewService(engineCfg, analysis.Dependencies{
		Library: lib,
		Logger:  log,
	})
	return embeddedRunner{svc: svc}, nil
}

type embeddedRunner struct {
	svc analysis.Service
}

func (r embeddedRunner) Analyze(ctx context.Context, query string) (*types.CompoundAnalysis, error) {
	return r.svc.Analyze(ctx, query)
}

func (r embeddedRunner) Compare(ctx context.Context, query1, query2 string) (*types.SimilarityReport, error) {
	return r.svc.Compare(ctx, query1, query2)
}

func (r embeddedRunner) Compounds(ctx context.Context) ([]string, error) {
	return r.svc.Compounds(), nil
}

func (r embeddedRunner) Suggest(query string) []string {
	return r.svc.Suggest(query)
}

type remoteRunner struct {
	api *client.Client
}

func (r remoteRunner) Analyze(ctx context.Context, query string) (*types.CompoundAnalysis, error) {
	return r.api.Analyze(ctx, query)
}

func (r remoteRunner) Compare(ctx context.Context, query1, query2 string) (*types.SimilarityReport, error) {
	return r.api.Compare(ctx, query1, query2)
}

func (r remoteRunner) Compounds(ctx context.Context) ([]string, error) {
	return r.api.Compounds(ctx)
}

func (r remoteRunner) Suggest(query string) []string { return nil }

// ─────────────────────────────────────────────────────────────────────────────
// Output helpers
// ─────────────────────────────────────────────────────────────────────────────

// printJSON writes data as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr. Unknown-compound
// failures carry name suggestions; these are printed as lookup hints.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	if suggestions := suggestionsFromError(err); len(suggestions) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Did you mean: %s\n", strings.Join(suggestions, ", "))
	}
}

// suggestionsFromError extracts candidate compound names from a remote API
// error. Embedded-engine suggestions are attached by the commands directly.
func suggestionsFromError(err error) []string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Suggestions
	}
	return nil
}

// Execute runs the CLI and reports failures on stderr. It is the sole entry
// point used by cmd/chemalyzer.
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}
