package board

import (
	"context"

	log "github.com/sirupsen/logrus"

	"board-api/storage"
)

// StartWatcher persists every committed change to the slot until ctx is
// done. Saves are fire-and-forget: a failure is logged and dropped, the
// in-memory state stays the source of truth and the next change gets a
// fresh attempt. Signals arriving while a save is in flight coalesce
// into one follow-up save of the latest snapshot.
func StartWatcher(ctx context.Context, store *Store, slot storage.Slot, logger *log.Logger) {
	if logger == nil {
		logger = log.New()
	}
	ch := store.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				if err := slot.Save(ctx, store.State()); err != nil {
					logger.WithError(err).Warn("state save failed")
				}
			}
		}
	}()
}
