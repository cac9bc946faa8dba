package uiopt

import (
	"github.com/DevonLowjamski/canopy/engine/schedule"
	"github.com/DevonLowjamski/canopy/engine/ui"
)

// Events is the optimizer's observer list. Handlers run synchronously on
// the frame goroutine, at most once per frame tick per event. Emission
// iterates the handler slice captured at call time, so a handler may
// subscribe further handlers without corrupting the iteration.
type Events struct {
	stateChanged []func(old, new PerfState)
	taskApplied  []func(schedule.TaskResult)
	visibleCount []func(int)
	lodChanged   []func(el ui.Element, old, new Level)
}

func (e *Events) OnStateChanged(fn func(old, new PerfState)) {
	e.stateChanged = append(e.stateChanged, fn)
}

func (e *Events) OnTaskApplied(fn func(schedule.TaskResult)) {
	e.taskApplied = append(e.taskApplied, fn)
}

func (e *Events) OnVisibleCount(fn func(int)) {
	e.visibleCount = append(e.visibleCount, fn)
}

func (e *Events) OnLODChanged(fn func(el ui.Element, old, new Level)) {
	e.lodChanged = append(e.lodChanged, fn)
}

func (e *Events) emitStateChanged(old, new PerfState) {
	for _, fn := range e.stateChanged {
		fn(old, new)
	}
}

func (e *Events) emitTaskApplied(res schedule.TaskResult) {
	for _, fn := range e.taskApplied {
		fn(res)
	}
}

func (e *Events) emitVisibleCount(n int) {
	for _, fn := range e.visibleCount {
		fn(n)
	}
}

func (e *Events) emitLODChanged(el ui.Element, old, new Level) {
	for _, fn := range e.lodChanged {
		fn(el, old, new)
	}
}
