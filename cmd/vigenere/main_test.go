package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sinkbrookstein/Cryptography/internal/cipher"
	"github.com/sinkbrookstein/Cryptography/internal/config"
	"github.com/sinkbrookstein/Cryptography/internal/generator"
	"github.com/sinkbrookstein/Cryptography/internal/loader"
	"github.com/sinkbrookstein/Cryptography/internal/model"
	"github.com/sinkbrookstein/Cryptography/internal/reference"
)

func TestApplyConfigSkipsChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var workers, minSamples int
	cmd.Flags().IntVar(&workers, "workers", 0, "")
	cmd.Flags().IntVar(&minSamples, "min-samples", 40, "")
	if err := cmd.Flags().Set("workers", "2"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fromFile := 8
	applyIntConfig(cmd, "workers", &workers, &fromFile)
	applyIntConfig(cmd, "min-samples", &minSamples, &fromFile)
	applyIntConfig(cmd, "min-samples", &minSamples, nil)
	if workers != 2 {
		t.Fatalf("expected flag value to win, got %d", workers)
	}
	if minSamples != 8 {
		t.Fatalf("expected config value to apply, got %d", minSamples)
	}
}

func TestValidateConfig(t *testing.T) {
	ok := model.AnalyzeConfig{Format: formatText}
	if err := validateConfig(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []model.AnalyzeConfig{
		{Format: "json"},
		{Format: formatText, Workers: -1},
		{Format: formatYAML, Inspect: true},
	}
	for _, cfg := range cases {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestBuildReferenceDefaults(t *testing.T) {
	ref, err := buildReference(nil, "", 0.07, 30)
	if err != nil {
		t.Fatalf("build reference: %v", err)
	}
	if ref.Frequencies != reference.English().Frequencies {
		t.Fatalf("expected English frequencies")
	}
	if ref.EnglishIC != 0.07 || ref.MinSamples != 30 {
		t.Fatalf("expected overrides to apply: %+v", ref)
	}
	if _, err := buildReference(nil, "", 0.065, 0); err == nil {
		t.Fatalf("expected invalid min samples to fail")
	}
	if _, err := buildReference([]float64{1, 2}, "", 0.065, 40); err == nil {
		t.Fatalf("expected short table to fail")
	}
}

func TestBuildReferenceFromCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("aab\n"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	ref, err := buildReference(nil, path, 0.065, 40)
	if err != nil {
		t.Fatalf("build reference: %v", err)
	}
	if ref.Frequencies[0] < 0.66 || ref.Frequencies[0] > 0.67 || ref.Frequencies[2] != 0 {
		t.Fatalf("unexpected corpus frequencies: %v", ref.Frequencies)
	}
}

func TestResolveEncryptKey(t *testing.T) {
	gen := generator.NewSeeded(1)
	if key, err := resolveEncryptKey("lemon", 0, gen); err != nil || key != "lemon" {
		t.Fatalf("unexpected key %q, err %v", key, err)
	}
	key, err := resolveEncryptKey("", 7, gen)
	if err != nil || len(key) != 7 {
		t.Fatalf("unexpected random key %q, err %v", key, err)
	}
	for _, tc := range []struct {
		key string
		n   int
	}{{"", 0}, {"lemon", 3}, {"", -1}} {
		if _, err := resolveEncryptKey(tc.key, tc.n, gen); err == nil {
			t.Fatalf("expected error for key %q length %d", tc.key, tc.n)
		}
	}
}

func TestReferenceBlockDecodes(t *testing.T) {
	block, err := referenceBlock("the quick brown fox jumps over the lazy dog")
	if err != nil {
		t.Fatalf("reference block: %v", err)
	}
	var cfg config.FileConfig
	if _, err := toml.Decode(block, &cfg); err != nil {
		t.Fatalf("decode block: %v\n%s", err, block)
	}
	if len(cfg.Reference.Frequencies) != 26 || cfg.Reference.EnglishIC == nil {
		t.Fatalf("unexpected decoded reference: %+v", cfg.Reference)
	}
}

func TestHistoryConfig(t *testing.T) {
	cfg, err := historyConfig("a.txt", "2024-01-02", 3)
	if err != nil {
		t.Fatalf("history config: %v", err)
	}
	if cfg.Since == nil || cfg.Last != 3 || cfg.Source != "a.txt" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := historyConfig("", "yesterday", 0); err == nil {
		t.Fatalf("expected invalid since to fail")
	}
	if _, err := historyConfig("", "", -1); err == nil {
		t.Fatalf("expected negative last to fail")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	meta, err := toml.Decode(defaultConfigTemplate(), &cfg)
	if err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if len(meta.Undecoded()) != 0 {
		t.Fatalf("unexpected keys in template: %v", meta.Undecoded())
	}
}

func TestEncryptDecryptCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("Attack at dawn!\n"))
	root.SetArgs([]string{"encrypt", "--key", "lemon"})
	if err := root.Execute(); err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "LXFOPVEFRNHR" {
		t.Fatalf("unexpected ciphertext %q", got)
	}

	root = newRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetIn(strings.NewReader("LXFOPVEFRNHR"))
	root.SetArgs([]string{"decrypt", "--key", "lemon"})
	if err := root.Execute(); err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "attackatdawn" {
		t.Fatalf("unexpected plaintext %q", got)
	}
}

func TestAnalyzeCommandInsufficientData(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("LXFOPVEFRNHR"))
	root.SetArgs([]string{"analyze"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected short ciphertext to fail")
	}
}

type syncRecorder struct {
	bytes.Buffer
	synced bool
}

func (s *syncRecorder) Sync() error {
	s.synced = true
	return nil
}

func TestExecuteSyncsLoggerOnFailure(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	rec := &syncRecorder{}
	prevBuild, prevLogger := buildLogger, logger
	t.Cleanup(func() { buildLogger, logger = prevBuild, prevLogger })
	buildLogger = func(bool) (*zap.Logger, error) {
		core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), rec, zapcore.DebugLevel)
		return zap.New(core), nil
	}

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("LXFOPVEFRNHR"))
	root.SetArgs([]string{"analyze"})
	if err := execute(root); err == nil {
		t.Fatalf("expected short ciphertext to fail")
	}
	if !rec.synced {
		t.Fatalf("expected logger to be synced after a failed command")
	}
}

func TestNewAnalyzerUsesFlagReference(t *testing.T) {
	prevIC, prevMin, prevCorpus := analyzeEnglishIC, analyzeMinSamples, analyzeCorpus
	t.Cleanup(func() { analyzeEnglishIC, analyzeMinSamples, analyzeCorpus = prevIC, prevMin, prevCorpus })
	analyzeEnglishIC, analyzeMinSamples, analyzeCorpus = 0.07, 30, ""

	a, err := newAnalyzer(config.FileConfig{}, 1)
	if err != nil {
		t.Fatalf("newAnalyzer: %v", err)
	}
	ref := a.Reference()
	if ref.EnglishIC != 0.07 || ref.MinSamples != 30 {
		t.Fatalf("expected flag values on the analyzer's reference: %+v", ref)
	}
	if ref.Frequencies != reference.English().Frequencies {
		t.Fatalf("expected English frequencies by default")
	}
}

func TestAnalyzeCommandYAML(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	plain, err := loader.Load(filepath.Join("..", "..", "internal", "analysis", "testdata", "passage.txt"))
	if err != nil {
		t.Fatalf("load passage: %v", err)
	}
	ct, err := cipher.Encrypt(plain, "crypto")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cipher.txt")
	if err := os.WriteFile(path, []byte(ct), 0o644); err != nil {
		t.Fatalf("write ciphertext: %v", err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{path, "--format", "yaml", "--save"})
	if err := root.Execute(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"key_length: 6", "key: crypto", "plaintext: " + plain} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output", want)
		}
	}
	if _, err := os.Stat(config.DefaultDBPath()); err != nil {
		t.Fatalf("expected history database: %v", err)
	}
}
