package domain

import (
	"testing"
	"time"
)

func TestDefaultStateShape(t *testing.T) {
	st := DefaultState()

	if st.DarkMode {
		t.Fatal("dark mode should default to off")
	}
	if len(st.Boards) != 1 {
		t.Fatalf("expected one seed board, got %d", len(st.Boards))
	}
	b := st.Boards[0]
	if b.Title != "Alpha" {
		t.Fatalf("unexpected board title %q", b.Title)
	}

	wantKeys := []SectionKey{KeyBacklog, KeyToday, KeyNextWeek, KeyTomorrow}
	if len(b.Sections) != len(wantKeys) {
		t.Fatalf("expected %d sections, got %d", len(wantKeys), len(b.Sections))
	}
	for i, sec := range b.Sections {
		if sec.Key != wantKeys[i] {
			t.Fatalf("section %d key = %q, want %q", i, sec.Key, wantKeys[i])
		}
		if sec.ID == "" {
			t.Fatalf("section %d missing id", i)
		}
	}

	backlog := b.Sections[0]
	if len(backlog.Tasks) != 5 {
		t.Fatalf("expected 5 mock tasks, got %d", len(backlog.Tasks))
	}
	for i, task := range backlog.Tasks {
		if task.Order != i+1 {
			t.Fatalf("task %d order = %d", i, task.Order)
		}
		scheduled := i%2 == 0
		if scheduled != task.Scheduled() {
			t.Fatalf("task %d scheduled = %v, want %v", i, task.Scheduled(), scheduled)
		}
		if task.Scheduled() {
			if _, err := time.Parse(time.RFC3339, *task.ScheduledAt); err != nil {
				t.Fatalf("task %d schedule not RFC3339: %v", i, err)
			}
		}
		if task.Subtasks == nil {
			t.Fatalf("task %d subtasks should be empty, not nil", i)
		}
	}

	for _, sec := range b.Sections[1:] {
		if len(sec.Tasks) != 0 {
			t.Fatalf("section %q should start empty", sec.Key)
		}
	}
}

func TestSeedIDsAreUnique(t *testing.T) {
	st := DefaultState()
	seen := make(map[string]struct{})
	record := func(id string) {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s in seed state", id)
		}
		seen[id] = struct{}{}
	}
	for _, b := range st.Boards {
		record(b.ID)
		for _, sec := range b.Sections {
			record(sec.ID)
			for _, task := range sec.Tasks {
				record(task.ID)
			}
		}
	}
}
