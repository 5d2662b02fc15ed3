// Package analysis recovers the key of a Vigenère ciphertext: it estimates the
// key length from partition self-IC, solves each key position by mutual IC
// against a reference model, and decrypts with the recovered key.
//
// Input is a letter-only ASCII string; callers strip everything else first.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sinkbrookstein/Cryptography/internal/alphabet"
	"github.com/sinkbrookstein/Cryptography/internal/cipher"
	"github.com/sinkbrookstein/Cryptography/internal/model"
	"github.com/sinkbrookstein/Cryptography/internal/reference"
)

// Analyzer runs the full key-recovery pipeline.
type Analyzer struct {
	ref       *model.ReferenceModel
	workers   int
	logger    *zap.Logger
	solver    KeySolver
	estimator *Estimator
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithWorkers bounds the goroutines used for scoring. Zero means unbounded,
// one means sequential.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSolver replaces the per-position key solver.
func WithSolver(solver KeySolver) Option {
	return func(a *Analyzer) {
		a.solver = solver
	}
}

// New returns an Analyzer scoring against ref.
func New(ref *model.ReferenceModel, opts ...Option) (*Analyzer, error) {
	if err := reference.Validate(ref); err != nil {
		return nil, fmt.Errorf("invalid reference model: %w", err)
	}
	a := &Analyzer{
		ref:    ref,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.solver == nil {
		a.solver = IndependentSolver{Reference: ref, Workers: a.workers}
	}
	a.estimator = NewEstimator(ref, a.workers, a.logger)
	return a, nil
}

// Reference returns the model the analyzer scores against.
func (a *Analyzer) Reference() *model.ReferenceModel {
	return a.ref
}

// Analyze estimates the key length, recovers the key and decrypts.
//
// ErrInsufficientData aborts the analysis. A *NoKeyRecoveredError is returned
// together with a complete best-effort result; the caller decides whether to
// accept it.
func (a *Analyzer) Analyze(ciphertext string) (model.Result, error) {
	if i := strings.IndexFunc(ciphertext, isNotLetter); i >= 0 {
		return model.Result{}, fmt.Errorf("ciphertext contains non-letter at position %d", i)
	}

	est, err := a.estimator.Estimate(ciphertext)
	if err != nil {
		return model.Result{}, err
	}

	key, positions, recErr := RecoverKey(ciphertext, est.Length, a.solver)
	var partial *NoKeyRecoveredError
	if recErr != nil && !errors.As(recErr, &partial) {
		return model.Result{}, recErr
	}

	plaintext, err := cipher.DecryptShifts(ciphertext, key)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to decrypt: %w", err)
	}

	result := model.Result{
		Estimate:  est,
		Key:       key,
		KeyString: alphabet.FormatKey(key),
		Positions: positions,
		Plaintext: plaintext,
	}
	a.logger.Debug("recovered key",
		zap.Int("length", est.Length),
		zap.String("key", result.KeyString))
	if partial != nil {
		a.logger.Warn("key recovery incomplete", zap.Ints("positions", partial.Positions))
		return result, partial
	}
	return result, nil
}

func isNotLetter(r rune) bool {
	return !alphabet.IsLetter(r)
}
