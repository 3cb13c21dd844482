package observability

import (
	"sync"

	"go.uber.org/zap"
)

// LoadingBar tracks in-flight gateway calls the way a UI loading bar would.
type LoadingBar struct {
	mu       sync.Mutex
	active   int
	started  int64
	finished int64
	failed   int64
	logger   *zap.Logger
}

// NewLoadingBar builds a loading bar that logs transitions at debug level.
func NewLoadingBar(logger *zap.Logger) *LoadingBar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadingBar{logger: logger}
}

// Start marks a call as in flight.
func (b *LoadingBar) Start() {
	b.mu.Lock()
	b.active++
	b.started++
	active := b.active
	b.mu.Unlock()
	b.logger.Debug("loading started", zap.Int("active", active))
}

// Finish marks a call as completed.
func (b *LoadingBar) Finish() {
	b.settle(&b.finished)
	b.logger.Debug("loading finished")
}

// Error marks a call as failed.
func (b *LoadingBar) Error() {
	b.settle(&b.failed)
	b.logger.Debug("loading failed")
}

func (b *LoadingBar) settle(counter *int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active > 0 {
		b.active--
	}
	*counter++
}

// Active reports the number of calls in flight.
func (b *LoadingBar) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Counts returns started, finished and failed totals.
func (b *LoadingBar) Counts() (started, finished, failed int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started, b.finished, b.failed
}
