package scorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skillhound/skillhound/internal/database"
	"github.com/skillhound/skillhound/internal/fetcher"
	"github.com/skillhound/skillhound/internal/model"
)

func setupScorerTest(t *testing.T, handler http.Handler) (*Scorer, *database.DB) {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := fetcher.NewClient(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return NewScorer(db, client, nil), db
}

// TestScoreOne tests the fetch-persist-score path.
func TestScoreOne(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	s, db := setupScorerTest(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(`<html><body>
			<h1 class="job-title">Go Developer</h1>
			<div class="description">Go, more Go, and some SQL. Not a java role.</div>
		</body></html>`))
	}))
	ctx := context.Background()

	skills := model.SkillSet{
		{Name: "go", Wanted: true},
		{Name: "java", Wanted: false},
		{Name: "erlang", Wanted: true},
	}

	if _, err := db.AddPostingID(ctx, "p1"); err != nil {
		t.Fatalf("AddPostingID failed: %v", err)
	}
	if err := db.PutPostingShell(ctx, "p1", "/viewjob?id=p1"); err != nil {
		t.Fatalf("PutPostingShell failed: %v", err)
	}

	if err := s.ScoreOne(ctx, "p1", "/viewjob?id=p1", skills); err != nil {
		t.Fatalf("ScoreOne failed: %v", err)
	}

	t.Run("posting persisted", func(t *testing.T) {
		p, err := db.GetPosting(ctx, "p1")
		if err != nil {
			t.Fatalf("GetPosting failed: %v", err)
		}
		if p == nil || p.IsShell() {
			t.Fatalf("posting = %+v, want scraped fields", p)
		}
		if p.Fields["title"] != "Go Developer" {
			t.Errorf("title = %q, want Go Developer", p.Fields["title"])
		}
	})

	t.Run("cells written for every snapshot skill", func(t *testing.T) {
		row, err := db.GetAnalysisRow(ctx, "p1")
		if err != nil {
			t.Fatalf("GetAnalysisRow failed: %v", err)
		}
		// Title contributes one "go" on top of the description's two.
		if row.Hits["go"] != 3 {
			t.Errorf("hits[go] = %d, want 3", row.Hits["go"])
		}
		if row.Hits["java"] != 1 {
			t.Errorf("hits[java] = %d, want 1", row.Hits["java"])
		}
		// Zero hits is data, not an error.
		if got, ok := row.Hits["erlang"]; !ok || got != 0 {
			t.Errorf("hits[erlang] = %d (present=%v), want an explicit 0", got, ok)
		}
	})

	t.Run("idempotent rerun without refetch", func(t *testing.T) {
		before := fetches.Load()
		if err := s.ScoreOne(ctx, "p1", "/viewjob?id=p1", skills); err != nil {
			t.Fatalf("ScoreOne rerun failed: %v", err)
		}
		if fetches.Load() != before {
			t.Error("resident posting was refetched")
		}

		row, err := db.GetAnalysisRow(ctx, "p1")
		if err != nil {
			t.Fatalf("GetAnalysisRow failed: %v", err)
		}
		if row.Hits["go"] != 3 || row.Hits["java"] != 1 {
			t.Errorf("hits changed on rerun: %v", row.Hits)
		}
	})
}

// TestScoreOneTransientFailure tests that a failed fetch leaves no
// partial state and surfaces a retryable error.
func TestScoreOneTransientFailure(t *testing.T) {
	t.Parallel()

	s, db := setupScorerTest(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	ctx := context.Background()

	if _, err := db.AddPostingID(ctx, "p1"); err != nil {
		t.Fatalf("AddPostingID failed: %v", err)
	}
	if err := db.PutPostingShell(ctx, "p1", "/viewjob?id=p1"); err != nil {
		t.Fatalf("PutPostingShell failed: %v", err)
	}

	err := s.ScoreOne(ctx, "p1", "/viewjob?id=p1", model.SkillSet{{Name: "go", Wanted: true}})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !fetcher.IsTransient(err) {
		t.Errorf("err = %v, want transient classification preserved", err)
	}

	row, err := db.GetAnalysisRow(ctx, "p1")
	if err != nil {
		t.Fatalf("GetAnalysisRow failed: %v", err)
	}
	if row != nil {
		t.Errorf("analysis cells written despite failed fetch: %+v", row)
	}
}

// TestScoreOneResidentPosting tests scoring against already-stored
// fields without any posting shell or prior fetch.
func TestScoreOneResidentPosting(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	s, db := setupScorerTest(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	ctx := context.Background()

	if _, err := db.AddPostingID(ctx, "p1"); err != nil {
		t.Fatalf("AddPostingID failed: %v", err)
	}
	if err := db.PutPosting(ctx, &model.Posting{
		ID:        "p1",
		Link:      "/viewjob?id=p1",
		Fields:    map[string]string{"description": "rust rust rust"},
		ScrapedAt: time.Now(),
	}); err != nil {
		t.Fatalf("PutPosting failed: %v", err)
	}

	if err := s.ScoreOne(ctx, "p1", "/viewjob?id=p1", model.SkillSet{{Name: "rust", Wanted: true}}); err != nil {
		t.Fatalf("ScoreOne failed: %v", err)
	}
	if fetches.Load() != 0 {
		t.Error("resident posting was fetched")
	}

	row, err := db.GetAnalysisRow(ctx, "p1")
	if err != nil {
		t.Fatalf("GetAnalysisRow failed: %v", err)
	}
	if row.Hits["rust"] != 3 {
		t.Errorf("hits[rust] = %d, want 3", row.Hits["rust"])
	}
}
