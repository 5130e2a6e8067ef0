package repository

import (
	"context"
	"sync"
	"time"
)

// metricsLoop calls update on every tick until ctx is done or stop closes.
type metricsLoop struct {
	wg       sync.WaitGroup
	stopChan chan struct{}
	once     sync.Once
}

func (l *metricsLoop) start(ctx context.Context, interval time.Duration, update func()) {
	l.stopChan = make(chan struct{})
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-l.stopChan:
				return
			case <-ticker.C:
				update()
			}
		}
	}()
}

func (l *metricsLoop) stop() {
	l.once.Do(func() {
		if l.stopChan != nil {
			close(l.stopChan)
		}
	})
	l.wg.Wait()
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
