package height

import (
	"context"
	"time"

	id "consentgate/pkg/domain"
)

// Wallclock derives height from elapsed time since genesis at a fixed block
// interval.
type Wallclock struct {
	genesis  time.Time
	interval time.Duration
	now      func() time.Time
	mono     monotonic
}

func NewWallclock(genesis time.Time, interval time.Duration) *Wallclock {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Wallclock{genesis: genesis, interval: interval, now: time.Now}
}

func (w *Wallclock) CurrentHeight(context.Context) (id.Height, error) {
	elapsed := w.now().Sub(w.genesis)
	if elapsed < 0 {
		return w.mono.observe(0), nil
	}
	return w.mono.observe(id.Height(elapsed / w.interval)), nil
}
