package domain

import (
	"strconv"
	"time"
)

const mockDescription = "This is a mock task used for demonstration."

// mockTasks builds n demo tasks, every even-indexed one scheduled an
// increasing number of hours from now.
func mockTasks(n int) []Task {
	tasks := make([]Task, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		var scheduledAt *string
		if i%2 == 0 {
			v := now.Add(time.Duration(i) * time.Hour).UTC().Format(time.RFC3339)
			scheduledAt = &v
		}
		tasks = append(tasks, Task{
			ID:          NewID(),
			Order:       i + 1,
			Title:       "Task " + strconv.Itoa(i+1),
			Description: mockDescription,
			ScheduledAt: scheduledAt,
			Subtasks:    []Subtask{},
		})
	}
	return tasks
}

// NewBoard creates a board with the four fixed-role sections, Backlog
// pre-populated with demo tasks.
func NewBoard(title string) Board {
	return Board{
		ID:    NewID(),
		Title: title,
		Sections: []Section{
			{ID: NewID(), Title: "Backlog", Key: KeyBacklog, Tasks: mockTasks(5)},
			{ID: NewID(), Title: "Today", Key: KeyToday, Tasks: []Task{}},
			{ID: NewID(), Title: "Next week", Key: KeyNextWeek, Tasks: []Task{}},
			{ID: NewID(), Title: "Tomorrow", Key: KeyTomorrow, Tasks: []Task{}},
		},
	}
}

// DefaultState is the first-run state used when no usable persisted
// state exists.
func DefaultState() State {
	return State{Boards: []Board{NewBoard("Alpha")}}
}
