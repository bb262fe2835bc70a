package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"syscall"

	"l10n-stats/internal/config"
	"l10n-stats/internal/parser"
	"l10n-stats/internal/report"
	"l10n-stats/internal/snapshot"
	"l10n-stats/internal/stats"
	"l10n-stats/internal/textutil"
	"l10n-stats/internal/vcs"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "l10n-stats",
		Short: "Localization string statistics over a repository's history",
		Long: `Extracts translatable strings from .po, .xliff and .lang files and measures,
day by day, how many strings and words were added to and removed from a tracked
directory of a git repository, with a yearly summary.`,
	}

	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(changesetsCmd())

	return rootCmd
}

// scanFlags are shared by every command that parses translation files.
type scanFlags struct {
	format   string
	template bool
	workers  int
	exclude  []string
}

func addScanFlags(cmd *cobra.Command, f *scanFlags) {
	cmd.Flags().StringVar(&f.format, "format", "", "Translation file format: "+strings.Join(parser.Formats(), ", ")+" (default from L10N_FORMAT)")
	cmd.Flags().BoolVar(&f.template, "template", false, "Keep untranslated entries with their source text")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Files parsed concurrently within one snapshot (default from WORKER_COUNT)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "Relative path prefixes to skip (default from EXCLUDE_PATHS)")
}

// apply overrides cfg with the flags the user actually set.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("format") {
		cfg.Format = f.format
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = f.template
	}
	if cmd.Flags().Changed("workers") {
		cfg.WorkerCount = f.workers
	}
	if cmd.Flags().Changed("exclude") {
		cfg.ExcludePaths = f.exclude
	}
}

func statsCmd() *cobra.Command {
	var (
		flags      scanFlags
		exportFmt  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "stats <repo> <element>",
		Short: "Compute daily and yearly string statistics for a directory of a git repository",
		Long: `Lists the last commit of every day that touched <element>, checks each one out
in turn, extracts the strings under <repo>/<element> and reports what appeared and
disappeared since the previous day. Today's head ref closes the timeline.

The working tree of <repo> is switched between commits during the run and is left
on the head ref.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			flags.apply(cmd, cfg)
			return runStats(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], args[1], exportFmt, outputPath)
		},
	}

	addScanFlags(cmd, &flags)
	cmd.Flags().StringVar(&exportFmt, "export", "text", "Report format: "+strings.Join(report.Formats, ", "))
	cmd.Flags().StringVar(&outputPath, "output", "", "Write the report to this file instead of stdout")

	return cmd
}

func extractCmd() *cobra.Command {
	var (
		flags scanFlags
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "extract <path>",
		Short: "Extract the strings of the working tree under a path and count them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			flags.apply(cmd, cfg)
			return runExtract(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], list)
		},
	}

	addScanFlags(cmd, &flags)
	cmd.Flags().BoolVar(&list, "list", false, "Print every string ID with a preview of its text")

	return cmd
}

func changesetsCmd() *cobra.Command {
	var exportFmt string

	cmd := &cobra.Command{
		Use:   "changesets <repo> <element>",
		Short: "Print the daily changeset timeline of a directory of a git repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangesets(cmd.Context(), cmd.OutOrStdout(), loadConfig(), args[0], args[1], exportFmt)
		},
	}

	cmd.Flags().StringVar(&exportFmt, "export", "text", "Output format: text or json")

	return cmd
}

// runStats handles the `stats` command.
func runStats(parent context.Context, stdout io.Writer, cfg *config.Config, repo, element, exportFmt, outputPath string) error {
	ctx, cancel := setupContext(parent)
	defer cancel()

	p, err := parser.ForFormat(cfg.Format)
	if err != nil {
		return err
	}
	if !slices.Contains(report.Formats, exportFmt) {
		return fmt.Errorf("unknown export format %q (supported: %s)", exportFmt, strings.Join(report.Formats, ", "))
	}

	git := newGit(cfg, repo)
	scanner, err := newScanner(cfg, filepath.Join(repo, element), p)
	if err != nil {
		return err
	}

	log.Info().
		Str("repo", repo).
		Str("element", element).
		Str("format", p.Format()).
		Bool("template", cfg.Template).
		Msg("Starting statistics run")

	changesets, err := git.ListChangesets(ctx, element)
	if err != nil {
		return fmt.Errorf("list changesets: %w", err)
	}

	days, err := stats.NewEngine(git, scanner).Run(ctx, changesets)
	if err != nil {
		return err
	}
	years := stats.Rollup(days)

	out, closeOut, err := openOutput(stdout, outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := report.Write(out, exportFmt, days, years); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info().Int("days", len(days)).Int("years", len(years)).Msg("Statistics run complete")
	return nil
}

// runExtract handles the `extract` command.
func runExtract(parent context.Context, stdout io.Writer, cfg *config.Config, path string, list bool) error {
	ctx, cancel := setupContext(parent)
	defer cancel()

	p, err := parser.ForFormat(cfg.Format)
	if err != nil {
		return err
	}

	scanner, err := newScanner(cfg, path, p)
	if err != nil {
		return err
	}

	table, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	if list {
		ids := make([]string, 0, len(table))
		for id := range table {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			preview := strings.ReplaceAll(textutil.Truncate(table[id], 60), "\n", " ")
			fmt.Fprintf(stdout, "%s\t%s\n", id, preview)
		}
	}

	fmt.Fprintf(stdout, "Strings: %d\n", len(table))
	fmt.Fprintf(stdout, "Words: %d\n", textutil.SumWords(table))
	return nil
}

// runChangesets handles the `changesets` command.
func runChangesets(parent context.Context, stdout io.Writer, cfg *config.Config, repo, element, exportFmt string) error {
	ctx, cancel := setupContext(parent)
	defer cancel()

	changesets, err := newGit(cfg, repo).ListChangesets(ctx, element)
	if err != nil {
		return fmt.Errorf("list changesets: %w", err)
	}

	switch exportFmt {
	case "text", "":
		for _, c := range changesets {
			fmt.Fprintf(stdout, "%s\t%s\n", c.Day, c.Ref)
		}
		return nil
	case "json":
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(changesets)
	default:
		return fmt.Errorf("unknown export format %q (supported: text, json)", exportFmt)
	}
}

// loadConfig reads configuration and applies its log level.
func loadConfig() *config.Config {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return cfg
}

func newGit(cfg *config.Config, repo string) *vcs.Git {
	return vcs.NewGit(repo,
		vcs.WithBinary(cfg.GitBinary),
		vcs.WithHeadRef(cfg.HeadRef),
		vcs.WithLocation(cfg.Location()),
	)
}

func newScanner(cfg *config.Config, root string, p parser.Parser) (*snapshot.Scanner, error) {
	return snapshot.NewScanner(root, p, snapshot.Options{
		Template:  cfg.Template,
		Workers:   cfg.WorkerCount,
		CacheSize: cfg.ParseCacheSize,
		Exclude:   cfg.ExcludePaths,
	})
}

// openOutput returns the file at path, or stdout when path is empty.
func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to close output file")
		}
	}, nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
