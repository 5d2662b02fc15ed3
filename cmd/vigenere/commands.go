package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sinkbrookstein/Cryptography/internal/cipher"
	"github.com/sinkbrookstein/Cryptography/internal/config"
	"github.com/sinkbrookstein/Cryptography/internal/freq"
	"github.com/sinkbrookstein/Cryptography/internal/generator"
	"github.com/sinkbrookstein/Cryptography/internal/historyui"
	"github.com/sinkbrookstein/Cryptography/internal/loader"
	"github.com/sinkbrookstein/Cryptography/internal/model"
	"github.com/sinkbrookstein/Cryptography/internal/reference"
	"github.com/sinkbrookstein/Cryptography/internal/stats"
	"github.com/sinkbrookstein/Cryptography/internal/store"
)

var (
	encryptKey       string
	encryptRandomKey int
	decryptKey       string

	historySource string
	historySince  string
	historyLast   int
	historyPlain  bool
)

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt [file]",
		Short: "Encrypt the letters of a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEncryptCmd,
	}
	cmd.Flags().StringVar(&encryptKey, "key", "", "keyword to encrypt with")
	cmd.Flags().IntVar(&encryptRandomKey, "random-key", 0, "encrypt with a random keyword of this length")
	return cmd
}

func runEncryptCmd(cmd *cobra.Command, args []string) error {
	key, err := resolveEncryptKey(encryptKey, encryptRandomKey, generator.New())
	if err != nil {
		return err
	}
	plaintext, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	ciphertext, err := cipher.Encrypt(plaintext, key)
	if err != nil {
		return err
	}
	if encryptRandomKey > 0 {
		logErrf("key: %s\n", key)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), ciphertext); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func resolveEncryptKey(key string, randomLen int, gen *generator.Generator) (string, error) {
	switch {
	case key != "" && randomLen > 0:
		return "", fmt.Errorf("--key and --random-key are mutually exclusive")
	case randomLen < 0:
		return "", fmt.Errorf("--random-key must be > 0")
	case randomLen > 0:
		return gen.PrimitiveKey(randomLen), nil
	case key == "":
		return "", fmt.Errorf("--key or --random-key is required")
	}
	return key, nil
}

func newDecryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt [file]",
		Short: "Decrypt the letters of a file or stdin with a known key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDecryptCmd,
	}
	cmd.Flags().StringVar(&decryptKey, "key", "", "keyword to decrypt with")
	return cmd
}

func runDecryptCmd(cmd *cobra.Command, args []string) error {
	if decryptKey == "" {
		return fmt.Errorf("--key is required")
	}
	ciphertext, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	plaintext, err := cipher.Decrypt(ciphertext, decryptKey)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), plaintext); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newReferenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reference <file>",
		Short: "Print a [reference] config block derived from a sample text",
		Args:  cobra.ExactArgs(1),
		RunE:  runReferenceCmd,
	}
}

func runReferenceCmd(cmd *cobra.Command, args []string) error {
	text, err := loader.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	block, err := referenceBlock(text)
	if err != nil {
		return err
	}
	logErrf("derived from %d letters of %s\n", len(text), args[0])
	if _, err := fmt.Fprint(cmd.OutOrStdout(), block); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// referenceBlock renders the letter table of text, with the text's own
// self-IC as the expected IC.
func referenceBlock(text string) (string, error) {
	ref, err := reference.FromText(text)
	if err != nil {
		return "", err
	}
	selfIC := freq.SelfIC(text)
	return config.EncodeReference(config.ReferenceConfig{
		Frequencies: ref.Frequencies[:],
		EnglishIC:   &selfIC,
	})
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved analyses",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySource, "source", "", "only analyses of this source")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N analyses")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of the interactive browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig(historySource, historySince, historyLast)
	if err != nil {
		return err
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

	if historyPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return err
		}
		return stats.RenderHistory(cmd.OutOrStdout(), report.Records)
	}

	browser := historyui.NewModel(st, cfg)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func historyConfig(source, since string, last int) (model.HistoryConfig, error) {
	if last < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	cfg := model.HistoryConfig{Source: source, Last: last}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logErrln("Created", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# vigenere configuration
# Uncomment a value to enable it. CLI flags override config values.

[reference]
# english-ic = %.3f      # Expected index of coincidence of the plaintext language
# min-samples = %d        # Letters required per key position
# corpus = "alice.txt"    # Derive letter frequencies from a sample text
# frequencies = []        # 26 letter frequencies a..z (see: vigenere reference <file>)

[analyze]
# workers = %d             # Scoring goroutines (0: unbounded, 1: sequential)
# save = false            # Store every analysis in the history database
# format = %q         # Output format: text or yaml
# plot = false            # Plot average IC per candidate key length
`,
		reference.DefaultEnglishIC,
		reference.DefaultMinSamples,
		defaultWorkers,
		formatText,
	)
}
