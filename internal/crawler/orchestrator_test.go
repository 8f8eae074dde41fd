package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/skillhound/skillhound/internal/database"
	"github.com/skillhound/skillhound/internal/fetcher"
	"github.com/skillhound/skillhound/internal/model"
	"github.com/skillhound/skillhound/internal/queue"
)

// boardPage renders a search results page with the given posting ids
// and match estimate.
func boardPage(estimate int, ids ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	if estimate > 0 {
		fmt.Fprintf(&b, `<div class="result-count">%d jobs found</div>`, estimate)
	}
	for _, id := range ids {
		fmt.Fprintf(&b, `<div class="result" data-id=%q><a href="/viewjob?id=%s">posting</a></div>`, id, id)
	}
	b.WriteString("</body></html>")
	return b.String()
}

type crawlFixture struct {
	orch   *Orchestrator
	db     *database.DB
	scores *queue.Queue
	pages  atomic.Int32
}

// setupCrawlTest wires an Orchestrator against a fake board. pages maps
// a 1-based page number to the HTML served for it; pages beyond the map
// get an empty result page.
func setupCrawlTest(t *testing.T, pages map[int]string, opts ...Option) *crawlFixture {
	t.Helper()

	f := &crawlFixture{}

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	f.db = db

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.pages.Add(1)
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		page := start/10 + 1
		html, ok := pages[page]
		if !ok {
			html = boardPage(0)
		}
		if html == "FAIL" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)

	client, err := fetcher.NewClient(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	f.scores = queue.New(db.SQL(), queue.Options{Name: queue.ScoreQueue})
	if err := f.scores.EnsureTable(context.Background()); err != nil {
		t.Fatalf("EnsureTable failed: %v", err)
	}

	opts = append([]Option{WithDelay(0)}, opts...)
	f.orch = NewOrchestrator(db, client, f.scores, opts...)
	return f
}

// TestCrawl tests discovery, shell writes, and task scheduling.
func TestCrawl(t *testing.T) {
	t.Parallel()

	f := setupCrawlTest(t, map[int]string{
		1: boardPage(12, "a1", "a2"),
		2: boardPage(12, "a3"),
	}, WithMaxPages(7))
	ctx := context.Background()

	if err := f.db.PutSkill(ctx, "go", true); err != nil {
		t.Fatalf("PutSkill failed: %v", err)
	}

	if err := f.orch.Crawl(ctx, "go"); err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	t.Run("one task per posting", func(t *testing.T) {
		n, err := f.scores.Len(ctx)
		if err != nil {
			t.Fatalf("Len failed: %v", err)
		}
		if n != 3 {
			t.Errorf("queued tasks = %d, want 3", n)
		}
	})

	t.Run("shell precedes task", func(t *testing.T) {
		task, err := f.scores.Claim(ctx)
		if err != nil || task == nil {
			t.Fatalf("Claim = %v, %v", task, err)
		}
		st, err := queue.DecodeScoreTask(task.Payload)
		if err != nil {
			t.Fatalf("DecodeScoreTask failed: %v", err)
		}

		p, err := f.db.GetPosting(ctx, st.PostingID)
		if err != nil {
			t.Fatalf("GetPosting failed: %v", err)
		}
		if p == nil {
			t.Fatalf("no shell for scheduled posting %s", st.PostingID)
		}
		if len(st.Skills) != 1 || st.Skills[0].Name != "go" {
			t.Errorf("task snapshot = %+v, want the go skill", st.Skills)
		}
	})

	t.Run("early stop on tail page", func(t *testing.T) {
		// Estimate 12 is below 2*10, so page 2 was the last request.
		if got := f.pages.Load(); got != 2 {
			t.Errorf("pages fetched = %d, want 2", got)
		}
	})

	t.Run("skill stamped", func(t *testing.T) {
		s, err := f.db.GetSkill(ctx, "go")
		if err != nil {
			t.Fatalf("GetSkill failed: %v", err)
		}
		if s == nil || !s.Wanted || s.LastSearched == nil {
			t.Errorf("skill = %+v, want wanted with last_searched set", s)
		}
	})
}

// TestCrawlDeduplicates tests that a second crawl schedules nothing for
// known postings.
func TestCrawlDeduplicates(t *testing.T) {
	t.Parallel()

	f := setupCrawlTest(t, map[int]string{
		1: boardPage(2, "a1", "a2"),
	})
	ctx := context.Background()

	if err := f.orch.Crawl(ctx, "go"); err != nil {
		t.Fatalf("first Crawl failed: %v", err)
	}
	if err := f.orch.Crawl(ctx, "sql"); err != nil {
		t.Fatalf("second Crawl failed: %v", err)
	}

	n, err := f.scores.Len(ctx)
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 2 {
		t.Errorf("queued tasks = %d, want 2 (no duplicates)", n)
	}
}

// TestCrawlNoEstimate tests that a missing estimate never stops the
// crawl early.
func TestCrawlNoEstimate(t *testing.T) {
	t.Parallel()

	f := setupCrawlTest(t, map[int]string{
		1: boardPage(0, "a1"),
	}, WithMaxPages(3))

	if err := f.orch.Crawl(context.Background(), "go"); err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}
	if got := f.pages.Load(); got != 3 {
		t.Errorf("pages fetched = %d, want all 3", got)
	}
}

// TestCrawlAbortsOnFetchError tests that a mid-crawl fetch failure
// aborts the invocation but keeps earlier discoveries.
func TestCrawlAbortsOnFetchError(t *testing.T) {
	t.Parallel()

	f := setupCrawlTest(t, map[int]string{
		1: boardPage(100, "a1", "a2"),
		2: "FAIL",
	})
	ctx := context.Background()

	err := f.orch.Crawl(ctx, "go")
	if err == nil {
		t.Fatal("expected an error")
	}

	t.Run("earlier pages stay scheduled", func(t *testing.T) {
		n, err := f.scores.Len(ctx)
		if err != nil {
			t.Fatalf("Len failed: %v", err)
		}
		if n != 2 {
			t.Errorf("queued tasks = %d, want 2 from page 1", n)
		}
	})

	t.Run("skill not stamped", func(t *testing.T) {
		s, err := f.db.GetSkill(ctx, "go")
		if err != nil {
			t.Fatalf("GetSkill failed: %v", err)
		}
		if s != nil {
			t.Errorf("skill = %+v, want no completion stamp", s)
		}
	})
}

// TestCrawlAppliesConstraint tests that the captured singleton
// constraint rides along on search requests.
func TestCrawlAppliesConstraint(t *testing.T) {
	t.Parallel()

	var gotLocation atomic.Value
	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocation.Store(r.URL.Query().Get("l"))
		_, _ = w.Write([]byte(boardPage(1, "a1")))
	}))
	t.Cleanup(srv.Close)

	client, err := fetcher.NewClient(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	scores := queue.New(db.SQL(), queue.Options{Name: queue.ScoreQueue})
	ctx := context.Background()
	if err := scores.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable failed: %v", err)
	}

	if err := db.PutConstraint(ctx, model.Constraint{Params: "l=Berlin"}); err != nil {
		t.Fatalf("PutConstraint failed: %v", err)
	}

	orch := NewOrchestrator(db, client, scores, WithDelay(0), WithMaxPages(1))
	if err := orch.Crawl(ctx, "go"); err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if got, _ := gotLocation.Load().(string); got != "Berlin" {
		t.Errorf("constraint l = %q, want Berlin", got)
	}
}
