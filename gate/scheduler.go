package gate

import (
	"sort"
	"sync"
	"time"
)

// TimerScheduler runs callbacks on real timers. It is for callers that keep
// a Form alive across time, such as a terminal or websocket front end;
// the HTTP handlers use a Queue instead.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Queue is an event queue driven by explicit time. Nothing advances it on
// its own: the HTTP handlers drop it after the request and let the browser
// run the resets, and tests call Advance.
type Queue struct {
	mu      sync.Mutex
	now     time.Duration
	pending []queued
	seq     int
}

type queued struct {
	at  time.Duration
	seq int
	fn  func()
}

// NewQueue returns an empty queue at time zero.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) After(d time.Duration, fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	q.pending = append(q.pending, queued{at: q.now + d, seq: q.seq, fn: fn})
}

// Delays lists the outstanding callbacks relative to the queue's clock,
// in the order they will run.
func (q *Queue) Delays() []time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sortLocked()
	out := make([]time.Duration, len(q.pending))
	for i, p := range q.pending {
		out[i] = p.at - q.now
	}
	return out
}

// Len returns the number of outstanding callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Advance moves the clock forward by d and runs every callback that is due,
// oldest first. Callbacks run outside the queue lock.
func (q *Queue) Advance(d time.Duration) {
	q.mu.Lock()
	q.now += d
	q.sortLocked()
	var due []queued
	i := 0
	for ; i < len(q.pending) && q.pending[i].at <= q.now; i++ {
		due = append(due, q.pending[i])
	}
	q.pending = q.pending[i:]
	q.mu.Unlock()

	for _, p := range due {
		p.fn()
	}
}

func (q *Queue) sortLocked() {
	sort.SliceStable(q.pending, func(i, j int) bool {
		if q.pending[i].at != q.pending[j].at {
			return q.pending[i].at < q.pending[j].at
		}
		return q.pending[i].seq < q.pending[j].seq
	})
}
