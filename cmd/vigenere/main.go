// Package main provides the CLI entrypoint for vigenere.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sinkbrookstein/Cryptography/internal/alphabet"
	"github.com/sinkbrookstein/Cryptography/internal/analysis"
	"github.com/sinkbrookstein/Cryptography/internal/cipher"
	"github.com/sinkbrookstein/Cryptography/internal/config"
	"github.com/sinkbrookstein/Cryptography/internal/loader"
	"github.com/sinkbrookstein/Cryptography/internal/model"
	"github.com/sinkbrookstein/Cryptography/internal/reference"
	"github.com/sinkbrookstein/Cryptography/internal/stats"
	"github.com/sinkbrookstein/Cryptography/internal/store"
	"github.com/sinkbrookstein/Cryptography/internal/tui"
)

const (
	formatText      = "text"
	formatYAML      = "yaml"
	defaultWorkers  = 0
	uncertainTop    = 3
	plotHeight      = 10
	stdinSourceName = "stdin"
)

var (
	verbose bool
	logger  *zap.Logger

	analyzeEnglishIC  float64
	analyzeMinSamples int
	analyzeCorpus     string
	analyzeWorkers    int
	analyzeSave       bool
	analyzeFormat     string
	analyzePlot       bool
	analyzeDetails    bool
	analyzeInspect    bool
	analyzeStrict     bool
)

func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs rootCmd and flushes the logger afterwards. Cobra skips
// post-run hooks when a command fails, so the flush cannot live there.
func execute(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

// buildLogger is replaced in tests.
var buildLogger = func(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vigenere [file]",
		Short: "Vigenère ciphertext analyzer",
		Long: `vigenere recovers the key of a Vigenère ciphertext.

The key length is estimated from the index of coincidence of the
ciphertext's interleaved columns, each key letter is then chosen by
matching its column against English letter frequencies, and the text
is decrypted with the recovered key.

Run without a subcommand to analyze a file, or stdin when no file is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			logger, err = buildLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		RunE: runAnalyzeCmd,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addAnalyzeFlags(rootCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Recover the key of a ciphertext and decrypt it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyzeCmd,
	}
	addAnalyzeFlags(analyzeCmd)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newDecryptCmd())
	rootCmd.AddCommand(newReferenceCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&analyzeEnglishIC, "english-ic", reference.DefaultEnglishIC, "expected index of coincidence of English text")
	cmd.Flags().IntVar(&analyzeMinSamples, "min-samples", reference.DefaultMinSamples, "letters required per key position")
	cmd.Flags().StringVar(&analyzeCorpus, "reference", "", "derive letter frequencies from this sample text")
	cmd.Flags().IntVar(&analyzeWorkers, "workers", defaultWorkers, "goroutines used for scoring (0: unbounded, 1: sequential)")
	cmd.Flags().BoolVar(&analyzeSave, "save", false, "store the analysis in the history database")
	cmd.Flags().StringVar(&analyzeFormat, "format", formatText, "output format: text or yaml")
	cmd.Flags().BoolVar(&analyzePlot, "plot", false, "plot average IC per candidate key length")
	cmd.Flags().BoolVar(&analyzeDetails, "details", false, "print key-length candidates and per-position scores")
	cmd.Flags().BoolVar(&analyzeInspect, "inspect", false, "open the interactive key inspector")
	cmd.Flags().BoolVar(&analyzeStrict, "strict", false, "fail when a key position cannot be recovered")
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "english-ic", &analyzeEnglishIC, fileCfg.Reference.EnglishIC)
	applyIntConfig(cmd, "min-samples", &analyzeMinSamples, fileCfg.Reference.MinSamples)
	applyStringConfig(cmd, "reference", &analyzeCorpus, fileCfg.Reference.Corpus)
	applyIntConfig(cmd, "workers", &analyzeWorkers, fileCfg.Analyze.Workers)
	applyBoolConfig(cmd, "save", &analyzeSave, fileCfg.Analyze.Save)
	applyStringConfig(cmd, "format", &analyzeFormat, fileCfg.Analyze.Format)
	applyBoolConfig(cmd, "plot", &analyzePlot, fileCfg.Analyze.Plot)

	cfg := model.AnalyzeConfig{
		Source:  stdinSourceName,
		Workers: analyzeWorkers,
		Save:    analyzeSave,
		Format:  strings.ToLower(strings.TrimSpace(analyzeFormat)),
		Plot:    analyzePlot,
		Details: analyzeDetails,
		Strict:  analyzeStrict,
		Inspect: analyzeInspect,
	}
	if len(args) == 1 {
		cfg.Source = args[0]
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	analyzer, err := newAnalyzer(fileCfg, cfg.Workers)
	if err != nil {
		return err
	}

	ciphertext, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	ciphertext = strings.ToUpper(ciphertext)

	started := time.Now()
	res, err := analyzer.Analyze(ciphertext)
	elapsed := time.Since(started)
	var partial *analysis.NoKeyRecoveredError
	switch {
	case err == nil:
	case errors.Is(err, analysis.ErrInsufficientData):
		return fmt.Errorf("%w (use --min-samples to lower the per-position requirement)", err)
	case errors.As(err, &partial):
		if cfg.Strict {
			return err
		}
		logErrf("warning: %v; showing best-effort key\n", partial)
	default:
		return err
	}

	uncertain := stats.UncertainPositions(res.Positions, uncertainTop)
	if cfg.Inspect {
		res, err = inspect(res, ciphertext, uncertain)
		if err != nil {
			return err
		}
	}

	ref := analyzer.Reference()
	if cfg.Save {
		if err := saveAnalysis(cmd.Context(), cfg.Source, ref, res, partial != nil, elapsed); err != nil {
			logErrf("failed to save analysis: %v\n", err)
		}
	}

	return writeResult(cmd.OutOrStdout(), cfg, ref, res, uncertain, partial != nil)
}

func newAnalyzer(fileCfg config.FileConfig, workers int) (*analysis.Analyzer, error) {
	ref, err := buildReference(fileCfg.Reference.Frequencies, analyzeCorpus, analyzeEnglishIC, analyzeMinSamples)
	if err != nil {
		return nil, err
	}
	return analysis.New(ref, analysis.WithWorkers(workers), analysis.WithLogger(logger))
}

func writeResult(w io.Writer, cfg model.AnalyzeConfig, ref *model.ReferenceModel, res model.Result, uncertain []int, partial bool) error {
	if cfg.Format == formatYAML {
		return stats.RenderYAML(w, res, ref, partial)
	}
	if err := stats.RenderResult(w, res); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cfg.Details {
		if err := stats.RenderCandidates(w, res, ref.EnglishIC); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderPositions(w, res.Positions, uncertain); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if cfg.Plot {
		if err := stats.RenderICPlot(w, res.Candidates, ref.EnglishIC, 0, plotHeight, false); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// buildReference picks the scoring model: a corpus wins over a configured
// table, which wins over the built-in English table.
func buildReference(frequencies []float64, corpus string, englishIC float64, minSamples int) (*model.ReferenceModel, error) {
	var ref *model.ReferenceModel
	switch {
	case corpus != "":
		text, err := loader.Load(corpus)
		if err != nil {
			return nil, fmt.Errorf("failed to load reference corpus: %w", err)
		}
		ref, err = reference.FromText(text)
		if err != nil {
			return nil, err
		}
	case len(frequencies) > 0:
		var err error
		ref, err = reference.New(frequencies, englishIC, minSamples)
		if err != nil {
			return nil, fmt.Errorf("invalid [reference] config: %w", err)
		}
	default:
		ref = reference.English()
	}
	ref.EnglishIC = englishIC
	ref.MinSamples = minSamples
	if err := reference.Validate(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func inspect(res model.Result, ciphertext string, uncertain []int) (model.Result, error) {
	inspector := tui.NewModel(res, ciphertext, uncertain)
	program := tea.NewProgram(inspector, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return res, fmt.Errorf("failed to run inspector: %w", err)
	}
	if !inspector.Accepted() || slices.Equal(inspector.Key(), res.Key) {
		return res, nil
	}
	res.Key = inspector.Key()
	res.KeyString = alphabet.FormatKey(res.Key)
	plaintext, err := cipher.DecryptShifts(ciphertext, res.Key)
	if err != nil {
		return res, fmt.Errorf("failed to decrypt: %w", err)
	}
	res.Plaintext = plaintext
	logErrf("using edited key %q\n", res.KeyString)
	return res, nil
}

func saveAnalysis(ctx context.Context, source string, ref *model.ReferenceModel, res model.Result, partial bool, elapsed time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	rec, err := st.InsertAnalysis(ctx, model.AnalysisRecord{
		Source:        source,
		CipherLen:     len(res.Plaintext),
		KeyLength:     res.Length,
		Key:           res.KeyString,
		EnglishIC:     ref.EnglishIC,
		MinSamples:    ref.MinSamples,
		DurationMs:    elapsed.Milliseconds(),
		Partial:       partial,
		PlainPreview:  preview(res.Plaintext),
		ShortlistSize: len(res.Shortlist),
	}, res.Candidates)
	if err != nil {
		return err
	}
	logger.Debug("saved analysis", zap.String("run_id", rec.RunID), zap.Int64("id", rec.ID))
	return nil
}

func preview(plaintext string) string {
	const limit = 120
	if len(plaintext) > limit {
		return plaintext[:limit]
	}
	return plaintext
}

// readInput returns the letters of the named file, or of stdin when no file
// is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		text, err := loader.Load(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return text, nil
	}
	text, err := loader.Read(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return text, nil
}

func validateConfig(cfg model.AnalyzeConfig) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}
	if cfg.Format != formatText && cfg.Format != formatYAML {
		return fmt.Errorf("--format must be %q or %q", formatText, formatYAML)
	}
	if cfg.Inspect && cfg.Format == formatYAML {
		return fmt.Errorf("--inspect cannot be combined with --format yaml")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
