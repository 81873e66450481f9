package storage

import (
	"bytes"
	"context"

	"github.com/bytedance/sonic"

	"board-api/domain"
)

// DefaultKey names the single persistence slot shared by every backend.
const DefaultKey = "board_state_v1"

// Slot reads and writes the single serialized state blob. Persistence is
// best-effort: Load degrades to absent on any unusable content and Save
// errors are logged and dropped by the watcher, never surfaced to the
// mutation that triggered them.
type Slot interface {
	// Load returns the persisted state, or ok=false when the slot is
	// empty, unreadable or does not hold a usable state blob.
	Load(ctx context.Context) (domain.State, bool)
	// Save serializes the state and writes it to the slot.
	Save(ctx context.Context, state domain.State) error
}

// decodeState parses a raw blob into a state. It tolerates junk: ok is
// false unless the payload is a JSON object with an array-typed boards
// field. A missing or non-boolean darkMode defaults to false.
func decodeState(raw []byte) (domain.State, bool) {
	var blob struct {
		DarkMode any                    `json:"darkMode"`
		Boards   sonic.NoCopyRawMessage `json:"boards"`
	}
	if err := sonic.Unmarshal(raw, &blob); err != nil {
		return domain.State{}, false
	}
	trimmed := bytes.TrimLeft(blob.Boards, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return domain.State{}, false
	}
	var boards []domain.Board
	if err := sonic.Unmarshal(blob.Boards, &boards); err != nil {
		return domain.State{}, false
	}

	st := domain.State{Boards: boards}
	if v, ok := blob.DarkMode.(bool); ok {
		st.DarkMode = v
	}
	return st, true
}

func encodeState(state domain.State) ([]byte, error) {
	if state.Boards == nil {
		state.Boards = []domain.Board{}
	}
	return sonic.Marshal(state)
}
