package api

import "board-api/domain"

const requestBodyMaxSize = 64 * 1024 // 64 KiB

// Store is the query and mutation surface handlers operate on. The
// concrete implementation is board.Store.
type Store interface {
	State() domain.State
	Boards() []domain.Board
	BoardByID(id string) (domain.Board, bool)
	SetDarkMode(v bool)
	Drag() domain.DragContext
	StartDrag(taskID, boardID, sectionID string)
	EndDrag()

	MoveTask(from domain.TaskRef, to domain.MoveTarget) bool
	MoveTaskToAdjacentBoard(taskID, boardID, sectionID string, dir domain.Direction) bool
	MoveTaskToAdjacentSection(taskID, boardID, sectionID string, dir domain.Direction) bool
	AddTask(boardID, sectionID string, payload domain.TaskPayload) bool
	UpdateTask(boardID, sectionID, taskID string, update domain.TaskUpdate) bool
	DeleteTask(boardID, sectionID, taskID string) bool
	ToggleSubtask(boardID, sectionID, taskID, subtaskID string) bool
	SortSectionTasks(boardID, sectionID string) bool
	RequiresConfirmForDetach(taskID, boardID, sectionID string) bool
}

// Gate is the confirmation prompt consulted before moves that detach a
// scheduled task.
type Gate interface {
	Open(message string) <-chan bool
	Accept() bool
	Cancel() bool
	Pending() (string, bool)
}

// mutationResponse reports whether a mutation was applied or silently
// skipped, so the view can distinguish the two without the engine ever
// raising.
type mutationResponse struct {
	Applied   bool `json:"applied"`
	Cancelled bool `json:"cancelled,omitempty"`
}

type moveRequest struct {
	From domain.TaskRef    `json:"from"`
	To   domain.MoveTarget `json:"to"`
}

// shiftRequest drives the adjacency moves. Confirmed marks a request
// whose caller already passed the confirm gate on its side.
type shiftRequest struct {
	TaskID    string           `json:"taskId"`
	BoardID   string           `json:"boardId"`
	SectionID string           `json:"sectionId"`
	Direction domain.Direction `json:"direction"`
	Confirmed bool             `json:"confirmed"`
}

type darkModeRequest struct {
	DarkMode bool `json:"darkMode"`
}

type dragStartRequest struct {
	TaskID    string `json:"taskId"`
	BoardID   string `json:"boardId"`
	SectionID string `json:"sectionId"`
}

type confirmStateResponse struct {
	Pending bool   `json:"pending"`
	Message string `json:"message,omitempty"`
}
