// Package confirm implements the asynchronous yes/no prompt callers must
// consult before moves that detach a scheduled task from its section.
package confirm

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Gate holds at most one pending prompt. Open installs it, Accept and
// Cancel resolve it. Callers must not open prompts concurrently: a
// superseding Open cancels the earlier prompt so its waiter is never
// left blocked.
type Gate struct {
	mu      sync.Mutex
	message string
	result  chan bool
	logger  *log.Logger
}

// NewGate creates a gate with no pending prompt.
func NewGate(logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.New()
	}
	return &Gate{logger: logger}
}

// Open installs a prompt and returns the channel its decision arrives
// on. The channel receives exactly one value.
func (g *Gate) Open(message string) <-chan bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result != nil {
		g.logger.WithField("message", g.message).Warn("superseding pending confirm prompt")
		g.result <- false
		close(g.result)
	}
	g.message = message
	g.result = make(chan bool, 1)
	return g.result
}

// Accept resolves the pending prompt with true. It reports whether a
// prompt was pending.
func (g *Gate) Accept() bool { return g.resolve(true) }

// Cancel resolves the pending prompt with false. It reports whether a
// prompt was pending.
func (g *Gate) Cancel() bool { return g.resolve(false) }

// Pending returns the message of the pending prompt, if any.
func (g *Gate) Pending() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message, g.result != nil
}

func (g *Gate) resolve(decision bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result == nil {
		return false
	}
	g.result <- decision
	close(g.result)
	g.result = nil
	g.message = ""
	return true
}
