package idle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultInterval = 5 * time.Second
	DefaultAmount   = 1
)

// Target loses HP while nobody acts. Drain returns an error once the game is over.
type Target interface {
	Drain(amount int) error
}

// Drainer drains a target every interval of inactivity.
//
// Ticks come from a channel so tests can drive the drainer without waiting.
type Drainer struct {
	target   Target
	interval time.Duration
	amount   int
	now      func() time.Time

	mu           sync.Mutex
	lastActivity time.Time
}

// NewDrainer creates a drainer. Non-positive interval or amount fall back to the defaults.
func NewDrainer(target Target, interval time.Duration, amount int) *Drainer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if amount <= 0 {
		amount = DefaultAmount
	}

	d := &Drainer{
		target:   target,
		interval: interval,
		amount:   amount,
		now:      time.Now,
	}
	d.lastActivity = d.now()
	return d
}

// Interval returns the inactivity interval.
func (d *Drainer) Interval() time.Duration {
	return d.interval
}

// Touch restarts the inactivity window.
func (d *Drainer) Touch() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastActivity = d.now()
}

// Tick drains the target if a full interval passed since the last activity
// or drain. It returns the error of the target, if any.
func (d *Drainer) Tick(now time.Time) (bool, error) {
	d.mu.Lock()
	if now.Sub(d.lastActivity) < d.interval {
		d.mu.Unlock()
		return false, nil
	}
	d.lastActivity = now
	d.mu.Unlock()

	if err := d.target.Drain(d.amount); err != nil {
		return false, err
	}

	return true, nil
}

// Run drains on every tick until ctx is done or the target returns an error.
// Errors matching any of stopOn end the loop silently.
func (d *Drainer) Run(ctx context.Context, ticks <-chan time.Time, stopOn ...error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case now, ok := <-ticks:
			if !ok {
				return nil
			}

			_, err := d.Tick(now)
			if err == nil {
				continue
			}

			for _, stop := range stopOn {
				if errors.Is(err, stop) {
					slog.Debug("Idle drainer stopped", "reason", err)
					return nil
				}
			}

			return err
		}
	}
}

// RunTicker runs the drainer on a real ticker at a fraction of the interval.
func (d *Drainer) RunTicker(ctx context.Context, stopOn ...error) error {
	ticker := time.NewTicker(d.interval / 5) //nolint:mnd
	defer ticker.Stop()

	return d.Run(ctx, ticker.C, stopOn...)
}
