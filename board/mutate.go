package board

import "board-api/domain"

// Mutation API. Every operation is total: it never panics and never
// returns an error, only an applied flag. Missing boards, sections,
// tasks or subtasks make the operation a silent no-op (applied=false).
// Every structurally changed section is renumbered before the mutation
// commits, and committed mutations notify subscribers.

// MoveTask removes the task from the source section and inserts it into
// the target section at atIndex, clamped to the target's bounds. Removal
// happens first, so on a same-section move atIndex addresses the list
// without the moving task. The single general-purpose move primitive:
// same-section reorders are the degenerate case with source == target.
func (s *Store) MoveTask(from domain.TaskRef, to domain.MoveTarget) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.sectionLocked(from.BoardID, from.SectionID)
	dst := s.sectionLocked(to.BoardID, to.SectionID)
	if src == nil || dst == nil {
		return false
	}
	idx := taskIndex(src.Tasks, from.TaskID)
	if idx < 0 {
		return false
	}

	task := src.Tasks[idx]
	src.Tasks = append(src.Tasks[:idx], src.Tasks[idx+1:]...)

	at := to.AtIndex
	if at < 0 {
		at = 0
	}
	if at > len(dst.Tasks) {
		at = len(dst.Tasks)
	}
	dst.Tasks = append(dst.Tasks, domain.Task{})
	copy(dst.Tasks[at+1:], dst.Tasks[at:])
	dst.Tasks[at] = task

	domain.Renumber(src)
	domain.Renumber(dst)
	s.notifyLocked()
	return true
}

// MoveTaskToAdjacentBoard moves the task to the same-role section of
// the neighbouring board. The task keeps its identity and fields; only
// its container and order change.
func (s *Store) MoveTaskToAdjacentBoard(taskID, boardID, sectionID string, dir domain.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := dir.Step()
	if step == 0 {
		return false
	}
	boardIdx := s.boardIndexLocked(boardID)
	if boardIdx < 0 {
		return false
	}
	src := s.sectionLocked(boardID, sectionID)
	if src == nil {
		return false
	}
	idx := taskIndex(src.Tasks, taskID)
	if idx < 0 {
		return false
	}
	targetIdx := boardIdx + step
	if targetIdx < 0 || targetIdx >= len(s.boards) {
		return false
	}
	dst := sectionByKey(&s.boards[targetIdx], src.Key)
	if dst == nil {
		return false
	}

	task := src.Tasks[idx].Clone()
	src.Tasks = append(src.Tasks[:idx], src.Tasks[idx+1:]...)
	task.Order = len(dst.Tasks) + 1
	dst.Tasks = append(dst.Tasks, task)

	domain.Renumber(src)
	domain.Renumber(dst)
	s.notifyLocked()
	return true
}

// MoveTaskToAdjacentSection moves the task to the end of the
// neighbouring section on the same board, bounds-checked.
func (s *Store) MoveTaskToAdjacentSection(taskID, boardID, sectionID string, dir domain.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := dir.Step()
	if step == 0 {
		return false
	}
	b := s.boardLocked(boardID)
	if b == nil {
		return false
	}
	fromIdx := -1
	for i := range b.Sections {
		if b.Sections[i].ID == sectionID {
			fromIdx = i
			break
		}
	}
	if fromIdx < 0 {
		return false
	}
	toIdx := fromIdx + step
	if toIdx < 0 || toIdx >= len(b.Sections) {
		return false
	}
	src := &b.Sections[fromIdx]
	dst := &b.Sections[toIdx]
	idx := taskIndex(src.Tasks, taskID)
	if idx < 0 {
		return false
	}

	task := src.Tasks[idx]
	src.Tasks = append(src.Tasks[:idx], src.Tasks[idx+1:]...)
	task.Order = len(dst.Tasks) + 1
	dst.Tasks = append(dst.Tasks, task)

	domain.Renumber(src)
	domain.Renumber(dst)
	s.notifyLocked()
	return true
}

// AddTask appends a new task with a fresh ID to the section. Subtasks
// default to empty; subtasks supplied without an ID get a fresh one.
func (s *Store) AddTask(boardID, sectionID string, payload domain.TaskPayload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.sectionLocked(boardID, sectionID)
	if sec == nil {
		return false
	}

	task := domain.Task{
		ID:          domain.NewID(),
		Order:       len(sec.Tasks) + 1,
		Title:       payload.Title,
		Description: payload.Description,
		Subtasks:    normalizeSubtasks(payload.Subtasks),
	}
	if payload.ScheduledAt != nil {
		v := *payload.ScheduledAt
		task.ScheduledAt = &v
	}
	sec.Tasks = append(sec.Tasks, task)
	s.notifyLocked()
	return true
}

// UpdateTask applies a partial update to the task. Only fields present
// in the update are touched; see domain.TaskUpdate.
func (s *Store) UpdateTask(boardID, sectionID, taskID string, update domain.TaskUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.sectionLocked(boardID, sectionID)
	if sec == nil {
		return false
	}
	idx := taskIndex(sec.Tasks, taskID)
	if idx < 0 {
		return false
	}

	task := &sec.Tasks[idx]
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.SetScheduledAt {
		if update.ScheduledAt != nil {
			v := *update.ScheduledAt
			task.ScheduledAt = &v
		} else {
			task.ScheduledAt = nil
		}
	}
	if update.Subtasks != nil {
		task.Subtasks = normalizeSubtasks(update.Subtasks)
	}
	s.notifyLocked()
	return true
}

// DeleteTask removes the task from the section and renumbers the rest.
func (s *Store) DeleteTask(boardID, sectionID, taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.sectionLocked(boardID, sectionID)
	if sec == nil {
		return false
	}
	idx := taskIndex(sec.Tasks, taskID)
	if idx < 0 {
		return false
	}

	sec.Tasks = append(sec.Tasks[:idx], sec.Tasks[idx+1:]...)
	domain.Renumber(sec)
	s.notifyLocked()
	return true
}

// ToggleSubtask flips the done flag on the matching subtask.
func (s *Store) ToggleSubtask(boardID, sectionID, taskID, subtaskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.sectionLocked(boardID, sectionID)
	if sec == nil {
		return false
	}
	idx := taskIndex(sec.Tasks, taskID)
	if idx < 0 {
		return false
	}
	task := &sec.Tasks[idx]
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Done = !task.Subtasks[i].Done
			s.notifyLocked()
			return true
		}
	}
	return false
}

// RequiresConfirmForDetach reports whether moving the task out of its
// section needs user confirmation: true iff the task exists and carries
// a schedule. Pure predicate; the gate itself lives with the caller.
func (s *Store) RequiresConfirmForDetach(taskID, boardID, sectionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec := s.sectionLocked(boardID, sectionID)
	if sec == nil {
		return false
	}
	idx := taskIndex(sec.Tasks, taskID)
	if idx < 0 {
		return false
	}
	return sec.Tasks[idx].Scheduled()
}

// SortSectionTasks stable-sorts the section's tasks by order. Defensive
// normalization for state loaded with inconsistent order values.
func (s *Store) SortSectionTasks(boardID, sectionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.sectionLocked(boardID, sectionID)
	if sec == nil {
		return false
	}
	domain.SortTasksByOrder(sec)
	s.notifyLocked()
	return true
}

func normalizeSubtasks(in []domain.Subtask) []domain.Subtask {
	out := make([]domain.Subtask, len(in))
	copy(out, in)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = domain.NewID()
		}
	}
	return out
}
