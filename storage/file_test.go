package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"board-api/domain"
)

func testState() domain.State {
	sched := "2026-03-01T09:00:00Z"
	return domain.State{
		DarkMode: true,
		Boards: []domain.Board{{
			ID:    "b1",
			Title: "Alpha",
			Sections: []domain.Section{
				{ID: "s1", Title: "Backlog", Key: domain.KeyBacklog, Tasks: []domain.Task{
					{ID: "t1", Order: 1, Title: "Task 1", Description: "d", ScheduledAt: &sched, Subtasks: []domain.Subtask{{ID: "sub1", Title: "one"}}},
					{ID: "t2", Order: 2, Title: "Task 2", Subtasks: []domain.Subtask{}},
				}},
				{ID: "s2", Title: "Today", Key: domain.KeyToday, Tasks: []domain.Task{}},
			},
		}},
	}
}

func TestFileSlotRoundTrip(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "state", "board_state_v1.json")
	slot := NewFileSlot(path, logger)
	ctx := context.Background()

	want := testState()
	if err := slot.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := slot.Load(ctx)
	if !ok {
		t.Fatal("expected saved state to load")
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, want)
	}
}

func TestFileSlotAbsentFile(t *testing.T) {
	logger, hook := test.NewNullLogger()
	slot := NewFileSlot(filepath.Join(t.TempDir(), "missing.json"), logger)

	if _, ok := slot.Load(context.Background()); ok {
		t.Fatal("expected absent slot")
	}
	if len(hook.Entries) != 0 {
		t.Fatalf("absent file should not be logged, got %d entries", len(hook.Entries))
	}
}

func TestFileSlotCorruptFile(t *testing.T) {
	logger, hook := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	slot := NewFileSlot(path, logger)

	if _, ok := slot.Load(context.Background()); ok {
		t.Fatal("corrupt slot should read as absent")
	}
	if hook.LastEntry() == nil {
		t.Fatal("expected malformed state to be logged")
	}
}

func TestFileSlotSaveOverwrites(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "state.json")
	slot := NewFileSlot(path, logger)
	ctx := context.Background()

	first := testState()
	if err := slot.Save(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := first.Clone()
	second.DarkMode = false
	second.Boards[0].Title = "Beta"
	if err := slot.Save(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, ok := slot.Load(ctx)
	if !ok {
		t.Fatal("expected state to load")
	}
	if got.DarkMode || got.Boards[0].Title != "Beta" {
		t.Fatalf("expected second save to win: %#v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should not linger: %v", err)
	}
}
