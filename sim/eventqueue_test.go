package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("eventQueue", func() {
	var (
		queue   *eventQueue
		handler *funcHandler
	)

	BeforeEach(func() {
		queue = newEventQueue()
		handler = &funcHandler{}
	})

	It("should pop events in time order", func() {
		queue.push(3, MakeEventBase(handler))
		queue.push(1, MakeEventBase(handler))
		queue.push(2, MakeEventBase(handler))

		Expect(queue.len()).To(Equal(3))

		t, _ := queue.pop()
		Expect(t).To(Equal(VTime(1)))
		t, _ = queue.pop()
		Expect(t).To(Equal(VTime(2)))
		t, _ = queue.pop()
		Expect(t).To(Equal(VTime(3)))

		Expect(queue.len()).To(Equal(0))
	})

	It("should keep same-time events in push order", func() {
		evts := []Event{
			MakeEventBase(&funcHandler{}),
			MakeEventBase(&funcHandler{}),
			MakeEventBase(&funcHandler{}),
			MakeEventBase(&funcHandler{}),
		}

		for _, e := range evts {
			queue.push(5, e)
		}

		for _, e := range evts {
			_, popped := queue.pop()
			Expect(popped).To(BeIdenticalTo(e))
		}
	})

	It("should interleave mixed times and ties correctly", func() {
		first := MakeEventBase(&funcHandler{})
		second := MakeEventBase(&funcHandler{})
		third := MakeEventBase(&funcHandler{})

		queue.push(4, second)
		queue.push(4, third)
		queue.push(2, first)

		_, popped := queue.pop()
		Expect(popped).To(BeIdenticalTo(Event(first)))
		_, popped = queue.pop()
		Expect(popped).To(BeIdenticalTo(Event(second)))
		_, popped = queue.pop()
		Expect(popped).To(BeIdenticalTo(Event(third)))
	})
})
