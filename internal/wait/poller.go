// Package wait implements the bounded polling loop shared by every
// "wait for X" operation.
package wait

import (
	"errors"
	"fmt"
	"time"
)

// DefaultInterval is the pause between two evaluations of a condition.
const DefaultInterval = 500 * time.Millisecond

// ErrTimeout is matched by every TimeoutError.
var ErrTimeout = errors.New("wait timed out")

// TimeoutError reports a condition that never held within the allotted time.
type TimeoutError struct {
	Description string
	Elapsed     time.Duration
	Timeout     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s (timeout %s)", e.Elapsed.Round(time.Millisecond), e.Description, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// Condition is a predicate over driver state. Check reports the value it
// found and whether the condition holds. A non-nil error aborts the wait
// immediately; conditions that treat "not there yet" as normal must return
// ok=false with a nil error instead.
type Condition[T any] struct {
	Description string
	Check       func() (T, bool, error)
}

// Clock abstracts time for the poller.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Poller evaluates conditions on the calling goroutine.
type Poller struct {
	Interval time.Duration
	Clock    Clock
}

// NewPoller returns a Poller using the wall clock and the given interval.
// A non-positive interval selects DefaultInterval.
func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{Interval: interval, Clock: realClock{}}
}

func (p *Poller) clock() Clock {
	if p == nil || p.Clock == nil {
		return realClock{}
	}
	return p.Clock
}

func (p *Poller) interval() time.Duration {
	if p == nil || p.Interval <= 0 {
		return DefaultInterval
	}
	return p.Interval
}

// Until blocks until cond holds or timeout elapses. The condition is always
// evaluated once more after the last sleep, so a condition that becomes true
// right at the deadline succeeds. On expiry it returns a *TimeoutError whose
// Elapsed is at least timeout.
func Until[T any](p *Poller, cond Condition[T], timeout time.Duration) (T, error) {
	clock := p.clock()
	interval := p.interval()
	start := clock.Now()
	for {
		v, ok, err := cond.Check()
		if err != nil {
			var zero T
			return zero, err
		}
		if ok {
			return v, nil
		}
		elapsed := clock.Now().Sub(start)
		if elapsed >= timeout {
			var zero T
			return zero, &TimeoutError{Description: cond.Description, Elapsed: elapsed, Timeout: timeout}
		}
		pause := interval
		if remaining := timeout - elapsed; remaining < pause {
			pause = remaining
		}
		clock.Sleep(pause)
	}
}

// True is the boolean form of Until, for conditions without a useful value.
func True(p *Poller, description string, check func() (bool, error), timeout time.Duration) error {
	_, err := Until(p, Condition[struct{}]{
		Description: description,
		Check: func() (struct{}, bool, error) {
			ok, err := check()
			return struct{}{}, ok, err
		},
	}, timeout)
	return err
}
