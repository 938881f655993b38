// internal/app/system/workers/meetingsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper reconciles meeting statuses for every group holding a meeting
// that may need a transition.
type Sweeper interface {
	SweepDueMeetings(ctx context.Context, at time.Time) (int, error)
}

// MeetingSweep is a background worker that periodically advances meeting
// statuses so time-window transitions land even when nobody reads a group.
type MeetingSweep struct {
	svc      Sweeper
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewMeetingSweep creates a new meeting status sweep worker.
func NewMeetingSweep(svc Sweeper, logger *zap.Logger, interval time.Duration) *MeetingSweep {
	return &MeetingSweep{
		svc:      svc,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *MeetingSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("meeting sweep worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *MeetingSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("meeting sweep worker stopped")
}

func (w *MeetingSweep) run() {
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

func (w *MeetingSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.svc.SweepDueMeetings(ctx, time.Time{})
	if err != nil {
		w.log.Error("meeting status sweep failed", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("advanced meeting statuses", zap.Int("groups", count))
	}
}
