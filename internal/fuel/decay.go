package fuel

import (
	"fmt"
	"sync"
	"time"
)

// DefaultDecayAmount is taken off the gauge each week.
const DefaultDecayAmount = 10

// DecayClock accumulates weekly decay. It is checked from a periodic timer
// and applies at most once per ISO week, on the first check that lands on a
// Monday. The value is a display cue only; nothing server side enforces it.
type DecayClock struct {
	mu       sync.Mutex
	amount   int
	total    int
	lastWeek string
}

func NewDecayClock(amount int) *DecayClock {
	if amount <= 0 {
		amount = DefaultDecayAmount
	}
	return &DecayClock{amount: amount}
}

// Check applies this week's decay if now is a Monday that has not been
// counted yet. It reports whether decay was applied.
func (c *DecayClock) Check(now time.Time) bool {
	if now.Weekday() != time.Monday {
		return false
	}
	year, week := now.ISOWeek()
	key := fmt.Sprintf("%d-W%02d", year, week)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastWeek == key {
		return false
	}
	c.lastWeek = key
	c.total += c.amount
	return true
}

// Total is the decay accumulated so far.
func (c *DecayClock) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// UntilNextDecay returns the time left until the next Monday midnight in
// now's location, truncated to the minute for the countdown display.
func UntilNextDecay(now time.Time) time.Duration {
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	y, m, d := now.Date()
	next := time.Date(y, m, d+days, 0, 0, 0, 0, now.Location())
	return next.Sub(now).Truncate(time.Minute)
}
