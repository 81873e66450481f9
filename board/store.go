// Package board holds the process-wide board state and the only
// mutation path into it. All writes go through the Store's methods;
// queries return deep copies so callers cannot bypass renumbering.
package board

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"board-api/domain"
)

// Store is the single mutable instance of the board state: dark mode,
// every board, and the ephemeral drag context. One mutex serializes all
// mutations so each one is atomic with respect to readers and to other
// writers.
type Store struct {
	mu       sync.RWMutex
	darkMode bool
	boards   []domain.Board
	drag     domain.DragContext
	subs     []chan struct{}
	logger   *log.Logger
}

// NewStore builds the container from a loaded or default state. Task
// lists are defensively normalized: persisted state may carry an
// inconsistent order, so every section is stable-sorted by order.
func NewStore(state domain.State, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New()
	}
	state = state.Clone()
	for i := range state.Boards {
		for j := range state.Boards[i].Sections {
			domain.SortTasksByOrder(&state.Boards[i].Sections[j])
		}
	}
	return &Store{
		darkMode: state.DarkMode,
		boards:   state.Boards,
		logger:   logger,
	}
}

// Subscribe registers a change listener. The channel receives a
// coalesced signal after every committed mutation; slow consumers never
// block the mutation path.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// notifyLocked signals every subscriber without blocking. A subscriber
// whose buffer is full already has a pending signal, which is enough:
// it snapshots the latest state when it wakes.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// State returns a deep copy of the persistable state.
func (s *Store) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.State{DarkMode: s.darkMode, Boards: s.boards}.Clone()
}

// DarkMode reports the current dark mode flag.
func (s *Store) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// SetDarkMode flips the persisted dark mode flag.
func (s *Store) SetDarkMode(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.darkMode == v {
		return
	}
	s.darkMode = v
	s.notifyLocked()
}

// Drag returns the current drag context.
func (s *Store) Drag() domain.DragContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drag
}

// StartDrag records an in-flight gesture. Drag state is ephemeral, so
// no change notification is emitted.
func (s *Store) StartDrag(taskID, boardID, sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = domain.DragContext{
		DraggingTaskID:  taskID,
		SourceBoardID:   boardID,
		SourceSectionID: sectionID,
	}
}

// EndDrag resets the drag context.
func (s *Store) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = domain.DragContext{}
}
