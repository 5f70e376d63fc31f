package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

// funcHandler runs a function when one of its events fires.
type funcHandler struct {
	f func(e Event)
}

func (h *funcHandler) Handle(e Event) error {
	h.f(e)
	return nil
}

// recordEvent returns an event that appends id to order when it fires.
func recordEvent(order *[]int, id int) Event {
	return MakeEventBase(&funcHandler{f: func(e Event) {
		*order = append(*order, id)
	}})
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should dispatch events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := NewMockEvent(mockCtrl)
		evt2 := NewMockEvent(mockCtrl)
		evt3 := NewMockEvent(mockCtrl)

		evt1.EXPECT().Handler().Return(handler1).AnyTimes()
		evt2.EXPECT().Handler().Return(handler2).AnyTimes()
		evt3.EXPECT().Handler().Return(handler1).AnyTimes()

		handleEvt2 := handler2.EXPECT().Handle(evt2).Do(func(e Event) {
			// now 2; evt3 dispatches at 3, before evt1 at 4
			engine.Schedule(1, evt3)
		})
		handleEvt3 := handler1.EXPECT().
			Handle(evt3).Do(func(e Event) {}).After(handleEvt2)
		handler1.EXPECT().
			Handle(evt1).Do(func(e Event) {}).After(handleEvt3)

		engine.Schedule(4, evt1)
		engine.Schedule(2, evt2)

		Expect(engine.Run()).To(Succeed())
	})

	It("should dispatch same-time events in schedule order", func() {
		order := []int{}

		engine.Schedule(5, recordEvent(&order, 1))
		engine.Schedule(5, recordEvent(&order, 2))
		engine.Schedule(5, recordEvent(&order, 3))
		engine.Schedule(2, recordEvent(&order, 0))

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal([]int{0, 1, 2, 3}))
	})

	It("should run a zero-delay chain after events already at this instant",
		func() {
			order := []int{}

			first := &funcHandler{f: func(e Event) {
				order = append(order, 1)
				engine.Schedule(0, recordEvent(&order, 2))
			}}

			engine.Schedule(7, MakeEventBase(first))
			engine.Schedule(7, recordEvent(&order, 3))

			Expect(engine.Run()).To(Succeed())

			Expect(order).To(Equal([]int{1, 3, 2}))
		})

	It("should never move the clock backward", func() {
		times := []VTime{}
		handler := &funcHandler{f: func(e Event) {
			times = append(times, engine.CurrentTime())
		}}

		engine.Schedule(9, MakeEventBase(handler))
		engine.Schedule(1, MakeEventBase(handler))
		engine.Schedule(4, MakeEventBase(handler))
		engine.Schedule(4, MakeEventBase(handler))

		Expect(engine.Run()).To(Succeed())

		Expect(times).To(Equal([]VTime{1, 4, 4, 9}))
	})

	It("should schedule relative to the dispatching event's time", func() {
		done := VTime(0)

		second := &funcHandler{f: func(e Event) {
			done = engine.CurrentTime()
		}}
		first := &funcHandler{f: func(e Event) {
			engine.Schedule(5, MakeEventBase(second))
		}}

		engine.Schedule(10, MakeEventBase(first))

		Expect(engine.Run()).To(Succeed())

		Expect(done).To(Equal(VTime(15)))
	})

	It("should stop on a handler error", func() {
		order := []int{}

		bad := &errorHandler{err: errors.New("bad event")}

		engine.Schedule(1, recordEvent(&order, 1))
		engine.Schedule(2, MakeEventBase(bad))
		engine.Schedule(3, recordEvent(&order, 2))

		Expect(engine.Run()).To(MatchError("bad event"))
		Expect(order).To(Equal([]int{1}))
	})
})

// errorHandler fails every event it handles.
type errorHandler struct {
	err error
}

func (h *errorHandler) Handle(e Event) error {
	return h.err
}
