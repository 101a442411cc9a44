package game

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

// pendingChange is a transition requested mid-frame, held until the next
// update cycle begins.
type pendingChange struct {
	id   StateID
	args Args
}

// Manager owns the state registry and the state stack. The identifier on
// top of the stack always names the currently active state; an empty stack
// means no state is active.
type Manager struct {
	registry map[StateID]State
	stack    []StateID
	active   State
	pending  *pendingChange
}

// NewManager creates a manager with no registered states.
func NewManager() *Manager {
	return &Manager{
		registry: make(map[StateID]State),
		stack:    make([]StateID, 0, 4),
	}
}

// Register binds a state instance to an identifier. Registering the same
// identifier again replaces the previous instance.
func (m *Manager) Register(id StateID, s State) {
	m.registry[id] = s
}

// ChangeState exits the active state, clears the whole stack, and enters
// the target with the exiting state's carryover merged under args. States
// dormant below the active one are dropped without an Exit call. A target
// with no registered instance is logged and leaves the stack untouched.
func (m *Manager) ChangeState(id StateID, args Args) bool {
	next, ok := m.registry[id]
	if !ok {
		log.WithField("state", id.String()).Warn("change to unregistered state ignored")
		return false
	}

	merged := make(Args)
	if m.active != nil {
		for k, v := range m.active.Exit() {
			merged[k] = v
		}
	}
	for k, v := range args {
		merged[k] = v
	}

	m.stack = append(m.stack[:0], id)
	m.active = next
	next.Enter(merged)

	log.WithFields(logrus.Fields{
		"state": id.String(),
		"depth": len(m.stack),
	}).Debug("state changed")
	return true
}

// PushState pauses the active state and enters the target on top of it.
// The paused state keeps its data; no carryover is captured. A target with
// no registered instance is logged and leaves the stack untouched, and the
// active state is not paused.
func (m *Manager) PushState(id StateID, args Args) bool {
	next, ok := m.registry[id]
	if !ok {
		log.WithField("state", id.String()).Warn("push of unregistered state ignored")
		return false
	}

	if m.active != nil {
		m.active.Pause()
	}
	if args == nil {
		args = make(Args)
	}

	m.stack = append(m.stack, id)
	m.active = next
	next.Enter(args)

	log.WithFields(logrus.Fields{
		"state": id.String(),
		"depth": len(m.stack),
	}).Debug("state pushed")
	return true
}

// PopState exits the active state and resumes the one beneath it. The
// exiting state's carryover is discarded. Popping the last state leaves no
// state active; popping an empty stack is logged and ignored.
func (m *Manager) PopState() bool {
	if len(m.stack) == 0 {
		log.Warn("pop on empty state stack ignored")
		return false
	}

	popped := m.stack[len(m.stack)-1]
	m.active.Exit()
	m.stack = m.stack[:len(m.stack)-1]

	if len(m.stack) == 0 {
		m.active = nil
	} else {
		m.active = m.registry[m.stack[len(m.stack)-1]]
		m.active.Resume()
	}

	log.WithFields(logrus.Fields{
		"state": popped.String(),
		"depth": len(m.stack),
	}).Debug("state popped")
	return true
}

// RequestStateChange queues a full ChangeState for the start of the next
// update cycle, so a state can ask for its own replacement without being
// torn down mid-frame. A second request in the same frame replaces the
// first.
func (m *Manager) RequestStateChange(id StateID, args Args) {
	m.pending = &pendingChange{id: id, args: args}
}

// Update applies any queued transition, then advances the active state.
// When a transition applies, the newly entered state is the one updated
// this cycle.
func (m *Manager) Update(dt time.Duration) {
	if m.pending != nil {
		req := m.pending
		m.pending = nil
		m.ChangeState(req.id, req.args)
	}

	if m.active != nil {
		m.active.Update(dt)
	}
}

// HandleEvent forwards an event to the active state and reports whether it
// was consumed. With no active state the event is never consumed.
func (m *Manager) HandleEvent(ev tcell.Event) bool {
	if m.active == nil {
		return false
	}
	return m.active.HandleEvent(ev)
}

// Current returns the active state, or nil when the stack is empty.
func (m *Manager) Current() State {
	return m.active
}

// CurrentID returns the identifier of the active state.
func (m *Manager) CurrentID() (StateID, bool) {
	if len(m.stack) == 0 {
		return 0, false
	}
	return m.stack[len(m.stack)-1], true
}

// Depth returns the number of states on the stack.
func (m *Manager) Depth() int {
	return len(m.stack)
}
