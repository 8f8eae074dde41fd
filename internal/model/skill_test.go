package model

import (
	"testing"
	"time"
)

// TestSkillSign tests scoring sign derivation.
func TestSkillSign(t *testing.T) {
	t.Parallel()

	if got := (Skill{Name: "go", Wanted: true}).Sign(); got != 1 {
		t.Errorf("wanted skill Sign() = %d, want 1", got)
	}
	if got := (Skill{Name: "java", Wanted: false}).Sign(); got != -1 {
		t.Errorf("unwanted skill Sign() = %d, want -1", got)
	}
}

// TestSkillSetFind tests case-insensitive lookup.
func TestSkillSetFind(t *testing.T) {
	t.Parallel()

	ss := SkillSet{
		{Name: "Python", Wanted: true},
		{Name: "java", Wanted: false},
	}

	t.Run("finds exact name", func(t *testing.T) {
		t.Parallel()

		s, ok := ss.Find("Python")
		if !ok || !s.Wanted {
			t.Errorf("Find(Python) = %+v, %v", s, ok)
		}
	})

	t.Run("finds case-insensitively", func(t *testing.T) {
		t.Parallel()

		s, ok := ss.Find("JAVA")
		if !ok || s.Name != "java" {
			t.Errorf("Find(JAVA) = %+v, %v", s, ok)
		}
	})

	t.Run("missing skill returns false", func(t *testing.T) {
		t.Parallel()

		if _, ok := ss.Find("rust"); ok {
			t.Error("Find(rust) should return false")
		}
	})
}

// TestSkillSetWanted tests polarity filtering with order preservation.
func TestSkillSetWanted(t *testing.T) {
	t.Parallel()

	ss := SkillSet{
		{Name: "go", Wanted: true},
		{Name: "cobol", Wanted: false},
		{Name: "sql", Wanted: true},
	}

	wanted := ss.Wanted(true)
	if len(wanted) != 2 || wanted[0].Name != "go" || wanted[1].Name != "sql" {
		t.Errorf("Wanted(true) = %v", wanted.Names())
	}

	unwanted := ss.Wanted(false)
	if len(unwanted) != 1 || unwanted[0].Name != "cobol" {
		t.Errorf("Wanted(false) = %v", unwanted.Names())
	}
}

// TestSkillSnapshotRoundTrip tests task payload serialization.
func TestSkillSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ss := SkillSet{
		{Name: "go", Wanted: true, LastSearched: &now},
		{Name: "php", Wanted: false},
	}

	data, err := ss.MarshalSnapshot()
	if err != nil {
		t.Fatalf("MarshalSnapshot() error: %v", err)
	}

	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot() error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(got))
	}
	if got[0].Name != "go" || !got[0].Wanted || got[0].LastSearched == nil {
		t.Errorf("first skill = %+v", got[0])
	}
	if got[1].Name != "php" || got[1].Wanted {
		t.Errorf("second skill = %+v", got[1])
	}
}

func TestUnmarshalSnapshotRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := UnmarshalSnapshot([]byte("{not json")); err == nil {
		t.Error("UnmarshalSnapshot should fail on malformed input")
	}
}
