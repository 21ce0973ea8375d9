package notify

import (
	"container/heap"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidFireTime = errors.New("notify: invalid fire time")
	ErrMissingID       = errors.New("notify: notification id is required")
)

// Notification is a one-shot, non-repeating local alert pending delivery.
type Notification struct {
	ID     string
	Title  string
	Body   string
	FireAt time.Time
}

type queueItem struct {
	n   Notification
	seq uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].n.FireAt.Before(pq[j].n.FireAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine delivers notifications at their fire time. Entries are keyed:
// scheduling an id that is already pending supersedes the earlier entry, and
// Cancel removes one without waking pending timers. Superseded and cancelled
// entries stay in the heap and are skipped lazily by sequence number.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	live    map[string]uint64
	seq     uint64
	out     chan Notification
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		live:   make(map[string]uint64),
		out:    make(chan Notification, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Notification {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule registers n for delivery, replacing any pending entry with the
// same id.
func (e *Engine) Schedule(n Notification) error {
	if n.ID == "" {
		return ErrMissingID
	}
	if n.FireAt.IsZero() {
		return ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("notify: engine stopped")
	}

	e.seq++
	e.live[n.ID] = e.seq
	heap.Push(&e.queue, queueItem{n: n, seq: e.seq})
	e.signalWakeup()
	return nil
}

// Cancel removes the pending entry for id. Unknown ids are a no-op.
func (e *Engine) Cancel(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.live, id)
	e.signalWakeup()
}

func (e *Engine) CancelAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live = make(map[string]uint64)
	e.queue = e.queue[:0]
	e.signalWakeup()
}

// Pending lists the currently scheduled notifications ordered by fire time.
func (e *Engine) Pending() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Notification, 0, len(e.live))
	for _, item := range e.queue {
		if seq, ok := e.live[item.n.ID]; ok && seq == item.seq {
			out = append(out, item.n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, n := range due {
				select {
				case e.out <- n:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest non-stale entry, discarding superseded and
// cancelled heap entries along the way.
func (e *Engine) peek() (Notification, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		top := e.queue[0]
		if seq, ok := e.live[top.n.ID]; ok && seq == top.seq {
			return top.n, true
		}
		heap.Pop(&e.queue)
	}
	return Notification{}, false
}

func (e *Engine) popDue(now time.Time) []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Notification, 0)
	for len(e.queue) > 0 {
		top := e.queue[0]
		if top.n.FireAt.After(now) {
			break
		}
		heap.Pop(&e.queue)
		if seq, ok := e.live[top.n.ID]; !ok || seq != top.seq {
			continue
		}
		delete(e.live, top.n.ID)
		out = append(out, top.n)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
