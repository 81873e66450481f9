package domain

import "github.com/google/uuid"

// NewID returns an identifier that is unique across boards, sections,
// tasks and subtasks for the lifetime of the process.
func NewID() string {
	return uuid.NewString()
}
