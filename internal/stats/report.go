package stats

import (
	"context"
	"fmt"

	"github.com/sinkbrookstein/Cryptography/internal/model"
	"github.com/sinkbrookstein/Cryptography/internal/store"
)

// Report holds stored analyses with their key-length candidates.
type Report struct {
	Records    []model.AnalysisRecord
	Candidates map[int64][]model.KeyLengthCandidate
}

// BuildReport loads analyses matching cfg and their candidates.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	records, err := st.ListAnalyses(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list analyses: %w", err)
	}
	cands := make(map[int64][]model.KeyLengthCandidate, len(records))
	for _, rec := range records {
		list, err := st.ListCandidates(ctx, rec.ID)
		if err != nil {
			return Report{}, fmt.Errorf("failed to list candidates for run %s: %w", rec.RunID, err)
		}
		cands[rec.ID] = list
	}
	return Report{Records: records, Candidates: cands}, nil
}
