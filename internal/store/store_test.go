package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/matchlog/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "matchlog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListRuns(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	players := [][2]string{{"GNU Go", "Fuego"}, {"Pachi", "GNU Go"}, {"Pachi", "Fuego"}}
	for i, p := range players {
		run := model.RunRecord{
			AnalyzedAt: time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			InputPath:  "run.dat",
			Metadata:   model.RunMetadata{Black: p[0], White: p[1], Size: "9"},
			Summary: model.Summary{
				Games: 10 + i,
				Used:  9,
				Black: model.SideSummary{Mean: 1.5, WinRate: 0.6},
				White: model.SideSummary{Mean: -2, Unknown: 0.1},
			},
		}
		if _, err := st.InsertRun(ctx, run); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	all, err := st.ListRuns(ctx, model.RunFilter{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
	if all[0].Summary.Games != 10 || all[2].Summary.Games != 12 {
		t.Fatalf("expected oldest first, got %+v", all)
	}
	first := all[0]
	if first.Metadata.Black != "GNU Go" || first.Metadata.Size != "9" || first.Summary.Black.WinRate != 0.6 || first.Summary.White.Unknown != 0.1 {
		t.Fatalf("unexpected round trip %+v", first)
	}
	if !first.AnalyzedAt.Equal(time.Unix(0, 0)) {
		t.Fatalf("unexpected time %v", first.AnalyzedAt)
	}

	gnu, err := st.ListRuns(ctx, model.RunFilter{Player: "gnu go"})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(gnu) != 2 {
		t.Fatalf("expected 2 runs with GNU Go, got %d", len(gnu))
	}

	last, err := st.ListRuns(ctx, model.RunFilter{Last: 2})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(last) != 2 || last[0].Summary.Games != 11 || last[1].Summary.Games != 12 {
		t.Fatalf("unexpected last runs %+v", last)
	}
}
