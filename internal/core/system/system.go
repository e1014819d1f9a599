package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseMessages Phase = iota // 0: run messages from other worlds
	PhasePrepare               // 1: create or recreate lazy resources
	PhaseUpdate                // 2: world logic
	PhaseRender                // 3: consume ready resources
	PhaseCleanup               // 4: destroy queued entities, clear flags
)

func (p Phase) String() string {
	switch p {
	case PhaseMessages:
		return "messages"
	case PhasePrepare:
		return "prepare"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a plain function into a System.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }
