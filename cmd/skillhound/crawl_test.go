package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skillhound/skillhound/internal/database"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl [skill]..." {
			t.Errorf("expected use 'crawl [skill]...', got %q", cmd.Use)
		}
	})

	t.Run("requires at least one argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Fatal("expected Args validator")
		}
		if err := cmd.Args(cmd, nil); err == nil {
			t.Error("expected error for zero arguments")
		}
		if err := cmd.Args(cmd, []string{"go"}); err != nil {
			t.Errorf("unexpected error for one argument: %v", err)
		}
	})

	t.Run("has board flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("board") == nil {
			t.Error("expected board flag")
		}
	})
}

// TestCrawlCmdEndToEnd runs the one-shot crawl against a fake board
// and checks the stored scores afterwards.
func TestCrawlCmdEndToEnd(t *testing.T) {
	t.Parallel()

	searchPage := `<html><body>
<div id="result-count">2 jobs</div>
<div class="result" data-id="p1"><a href="/jobs/p1">Go Developer</a></div>
<div class="result" data-id="p2"><a href="/jobs/p2">Java Engineer</a></div>
</body></html>`

	details := map[string]string{
		"/jobs/p1": `<html><body><h1>Go Developer</h1>
<div class="description">Go services in Go.</div></body></html>`,
		"/jobs/p2": `<html><body><h1>Java Engineer</h1>
<div class="description">No matches here.</div></body></html>`,
	}

	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if page, ok := details[r.URL.Path]; ok {
			fmt.Fprint(w, page)
			return
		}
		if r.URL.Query().Get("start") != "0" {
			// The estimate of 2 should stop the crawl after page one.
			t.Errorf("unexpected page request: %s", r.URL.String())
		}
		fmt.Fprint(w, searchPage)
	}))
	t.Cleanup(board.Close)

	dbDir := t.TempDir()

	var buf bytes.Buffer
	cmd := NewCrawlCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{
		"--board", board.URL,
		"--db-dir", dbDir,
		"--delay", "0",
		"go",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "crawl complete: 2 postings stored") {
		t.Errorf("unexpected output %q", buf.String())
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	skills, err := db.ScanSkills(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(skills) != 1 || skills[0].Name != "go" || !skills[0].Wanted {
		t.Fatalf("expected single wanted skill 'go', got %+v", skills)
	}

	row, err := db.GetAnalysisRow(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if row == nil {
		t.Fatal("expected p1 to be scored")
	}
	if row.Hits["go"] != 3 {
		t.Errorf("expected 3 hits for go on p1, got %d", row.Hits["go"])
	}

	row, err = db.GetAnalysisRow(ctx, "p2")
	if err != nil {
		t.Fatal(err)
	}
	if row == nil {
		t.Fatal("expected p2 to be scored")
	}
	if hits, ok := row.Hits["go"]; !ok || hits != 0 {
		t.Errorf("expected explicit zero for go on p2, got %d (present=%t)", hits, ok)
	}
}
