package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, "skillhound.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false fails on missing database", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(filepath.Join(t.TempDir(), "absent"), opts); err == nil {
			t.Error("expected error when database does not exist")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("first open failed: %v", err)
		}

		ctx := context.Background()
		if _, err := db.AddPostingID(ctx, "p1"); err != nil {
			t.Fatalf("AddPostingID failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		db2, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("second open failed: %v", err)
		}
		defer db2.Close()

		has, err := db2.HasPostingID(ctx, "p1")
		if err != nil {
			t.Fatalf("HasPostingID failed: %v", err)
		}
		if !has {
			t.Error("posting id should survive reopen")
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"RFC3339", "2026-03-01T12:00:00Z", false},
		{"RFC3339Nano", "2026-03-01T12:00:00.123456789Z", false},
		{"SQLite default", "2026-03-01 12:00:00", false},
		{"garbage", "not-a-time", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) zero = %v, want %v", tt.input, got.IsZero(), tt.zero)
			}
		})
	}
}
