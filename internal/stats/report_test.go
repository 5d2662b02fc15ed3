package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sinkbrookstein/Cryptography/internal/model"
	"github.com/sinkbrookstein/Cryptography/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		rec := model.AnalysisRecord{
			CreatedAt: time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			Source:    "stdin",
			CipherLen: 200 + i,
			KeyLength: i + 1,
			Key:       "abc"[:i+1],
		}
		cands := make([]model.KeyLengthCandidate, i+1)
		for j := range cands {
			cands[j] = model.KeyLengthCandidate{Length: j + 1, AvgIC: 0.04}
		}
		stored, err := st.InsertAnalysis(ctx, rec, cands)
		if err != nil {
			t.Fatalf("insert analysis: %v", err)
		}
		ids = append(ids, stored.ID)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Records))
	}
	if report.Records[0].ID != ids[1] || report.Records[1].ID != ids[2] {
		t.Fatalf("unexpected records: %+v", report.Records)
	}
	if len(report.Candidates[ids[2]]) != 3 {
		t.Fatalf("expected 3 candidates for last run, got %d", len(report.Candidates[ids[2]]))
	}
	if _, ok := report.Candidates[ids[0]]; ok {
		t.Fatalf("expected filtered run to be absent")
	}
}
