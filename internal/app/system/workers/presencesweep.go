// internal/app/system/workers/presencesweep.go
package workers

import (
	"context"
	"sync"
	"time"

	presencestore "github.com/dalemusser/colloquy/internal/app/store/presence"
	"go.uber.org/zap"
)

// PresenceSweep is a background worker that marks stale presence rows
// offline. Sending a message touches presence, so a user who has gone
// quiet for longer than the threshold is flipped to offline on the next
// sweep.
type PresenceSweep struct {
	presence     *presencestore.Store
	log          *zap.Logger
	interval     time.Duration
	offlineAfter time.Duration
	stopCh       chan struct{}
	wg           sync.WaitGroup
}

// NewPresenceSweep creates a new presence sweep worker.
//
// Parameters:
//   - store: the presence store
//   - logger: zap logger for logging
//   - interval: how often to run the sweep (e.g., 1 minute)
//   - offlineAfter: how long since last_seen before a row goes offline (e.g., 10 minutes)
func NewPresenceSweep(store *presencestore.Store, logger *zap.Logger, interval, offlineAfter time.Duration) *PresenceSweep {
	return &PresenceSweep{
		presence:     store,
		log:          logger,
		interval:     interval,
		offlineAfter: offlineAfter,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *PresenceSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("presence sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("offline_after", w.offlineAfter))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *PresenceSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("presence sweep worker stopped")
}

func (w *PresenceSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *PresenceSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.presence.MarkStaleOffline(ctx, w.offlineAfter)
	if err != nil {
		w.log.Error("failed to mark stale presence offline", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("marked stale presence offline", zap.Int64("count", count))
	}
}
