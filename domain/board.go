package domain

import "sort"

// SectionKey identifies a section's role on its board, independent of the
// display title. Exactly one section per key is expected per board.
type SectionKey string

const (
	KeyBacklog  SectionKey = "Backlog"
	KeyToday    SectionKey = "Today"
	KeyTomorrow SectionKey = "Tomorrow"
	KeyNextWeek SectionKey = "NextWeek"
)

// Valid reports whether k is one of the four fixed section roles.
func (k SectionKey) Valid() bool {
	switch k {
	case KeyBacklog, KeyToday, KeyTomorrow, KeyNextWeek:
		return true
	}
	return false
}

// Direction selects the neighbour for adjacency moves.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Step returns the index delta for the direction, 0 when invalid.
func (d Direction) Step() int {
	switch d {
	case DirectionLeft:
		return -1
	case DirectionRight:
		return 1
	}
	return 0
}

// Subtask is a checklist entry owned by a task.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task is a unit of work ranked by a dense 1-based order within its
// owning section. Order is a display key, not an identity.
type Task struct {
	ID          string    `json:"id"`
	Order       int       `json:"order"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledAt *string   `json:"scheduledAt"`
	Subtasks    []Subtask `json:"subtasks"`
}

// Scheduled reports whether the task carries a schedule.
func (t Task) Scheduled() bool { return t.ScheduledAt != nil }

// Section is a role-keyed ordered task list owned by one board.
type Section struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Key   SectionKey `json:"key"`
	Tasks []Task     `json:"tasks"`
}

// Board is a top-level workspace holding the four role sections.
type Board struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// State is the persisted root blob: dark mode plus every board.
type State struct {
	DarkMode bool    `json:"darkMode"`
	Boards   []Board `json:"boards"`
}

// DragContext describes an in-flight drag gesture. It is never persisted
// and is all-empty while no gesture is active.
type DragContext struct {
	DraggingTaskID  string `json:"draggingTaskId"`
	SourceBoardID   string `json:"sourceBoardId"`
	SourceSectionID string `json:"sourceSectionId"`
}

// Active reports whether a drag gesture is in flight.
func (d DragContext) Active() bool { return d.DraggingTaskID != "" }

// TaskRef addresses one task inside one section of one board.
type TaskRef struct {
	BoardID   string `json:"boardId"`
	SectionID string `json:"sectionId"`
	TaskID    string `json:"taskId"`
}

// MoveTarget addresses the insertion point of a move. AtIndex is clamped
// to the target section's bounds by the mutation, not by the caller.
type MoveTarget struct {
	BoardID   string `json:"boardId"`
	SectionID string `json:"sectionId"`
	AtIndex   int    `json:"atIndex"`
}

// TaskPayload carries the caller-supplied fields for a new task.
type TaskPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledAt *string   `json:"scheduledAt"`
	Subtasks    []Subtask `json:"subtasks,omitempty"`
}

// TaskUpdate carries a partial task update. Nil fields are left
// untouched; ScheduledAt is applied only when SetScheduledAt is true so
// an existing schedule can be cleared explicitly. A non-nil Subtasks
// slice replaces the whole list.
type TaskUpdate struct {
	Title          *string
	Description    *string
	ScheduledAt    *string
	SetScheduledAt bool
	Subtasks       []Subtask
}

// Renumber reassigns dense 1-based order values to the section's tasks.
// Mandatory after every structural change to the task list.
func Renumber(sec *Section) {
	for i := range sec.Tasks {
		sec.Tasks[i].Order = i + 1
	}
}

// SortTasksByOrder stable-sorts the section's tasks ascending by order.
// Used to normalize state that was loaded with an inconsistent order.
func SortTasksByOrder(sec *Section) {
	sort.SliceStable(sec.Tasks, func(i, j int) bool {
		return sec.Tasks[i].Order < sec.Tasks[j].Order
	})
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	if t.ScheduledAt != nil {
		v := *t.ScheduledAt
		out.ScheduledAt = &v
	}
	out.Subtasks = make([]Subtask, len(t.Subtasks))
	copy(out.Subtasks, t.Subtasks)
	return out
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	out.Tasks = make([]Task, len(s.Tasks))
	for i, t := range s.Tasks {
		out.Tasks[i] = t.Clone()
	}
	return out
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := b
	out.Sections = make([]Section, len(b.Sections))
	for i, s := range b.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the whole state.
func (st State) Clone() State {
	out := st
	out.Boards = make([]Board, len(st.Boards))
	for i, b := range st.Boards {
		out.Boards[i] = b.Clone()
	}
	return out
}
