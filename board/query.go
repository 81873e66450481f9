package board

import "board-api/domain"

// Query layer. Every method is read-only, returns deep copies, and
// reports "not found" through a -1 index or ok=false instead of errors.

// Boards returns a deep copy of every board in display order.
func (s *Store) Boards() []domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Board, len(s.boards))
	for i, b := range s.boards {
		out[i] = b.Clone()
	}
	return out
}

// BoardIndexByID returns the board's position in the global board list,
// or -1.
func (s *Store) BoardIndexByID(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boardIndexLocked(id)
}

// BoardByID returns a copy of the board, if present.
func (s *Store) BoardByID(id string) (domain.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b := s.boardLocked(id); b != nil {
		return b.Clone(), true
	}
	return domain.Board{}, false
}

// SectionByID returns a copy of the section, if present.
func (s *Store) SectionByID(boardID, sectionID string) (domain.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sec := s.sectionLocked(boardID, sectionID); sec != nil {
		return sec.Clone(), true
	}
	return domain.Section{}, false
}

// SectionByKeyInBoard returns a copy of the board's section with the
// given role key, if present.
func (s *Store) SectionByKeyInBoard(boardID string, key domain.SectionKey) (domain.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.boardLocked(boardID)
	if b == nil {
		return domain.Section{}, false
	}
	if sec := sectionByKey(b, key); sec != nil {
		return sec.Clone(), true
	}
	return domain.Section{}, false
}

// Internal lookups returning live pointers. Callers hold s.mu.

func (s *Store) boardIndexLocked(id string) int {
	for i := range s.boards {
		if s.boards[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) boardLocked(id string) *domain.Board {
	if i := s.boardIndexLocked(id); i >= 0 {
		return &s.boards[i]
	}
	return nil
}

func (s *Store) sectionLocked(boardID, sectionID string) *domain.Section {
	b := s.boardLocked(boardID)
	if b == nil {
		return nil
	}
	for i := range b.Sections {
		if b.Sections[i].ID == sectionID {
			return &b.Sections[i]
		}
	}
	return nil
}

func sectionByKey(b *domain.Board, key domain.SectionKey) *domain.Section {
	for i := range b.Sections {
		if b.Sections[i].Key == key {
			return &b.Sections[i]
		}
	}
	return nil
}

func taskIndex(tasks []domain.Task, taskID string) int {
	for i := range tasks {
		if tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
