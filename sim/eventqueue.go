package sim

import (
	"container/heap"
)

// A scheduledEvent pairs an event with its dispatch time. The sequence
// number breaks ties, so that same-time events leave the queue in the
// order they entered it.
type scheduledEvent struct {
	time VTime
	seq  uint64
	evt  Event
}

// An eventQueue holds the pending events of one engine, ordered by
// dispatch time first and schedule order second.
type eventQueue struct {
	entries scheduledHeap
	nextSeq uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	heap.Init(&q.entries)
	return q
}

// push enqueues an event for dispatch at time t.
func (q *eventQueue) push(t VTime, evt Event) {
	heap.Push(&q.entries, scheduledEvent{
		time: t,
		seq:  q.nextSeq,
		evt:  evt,
	})
	q.nextSeq++
}

// pop removes the next event to dispatch and returns it with its time.
func (q *eventQueue) pop() (VTime, Event) {
	entry := heap.Pop(&q.entries).(scheduledEvent)
	return entry.time, entry.evt
}

// len returns the number of pending events.
func (q *eventQueue) len() int {
	return len(q.entries)
}

type scheduledHeap []scheduledEvent

func (h scheduledHeap) Len() int {
	return len(h)
}

func (h scheduledHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}

func (h scheduledHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *scheduledHeap) Push(x interface{}) {
	*h = append(*h, x.(scheduledEvent))
}

func (h *scheduledHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[0 : n-1]
	return entry
}
