package circuitbreaker

type State int

const (
	Closed State = iota
	HalfOpen
	Open
)

func (s State) String() string {
	switch s {
	case HalfOpen:
		return "half-open"
	case Open:
		return "open"
	default:
		return "closed"
	}
}

// CircuitBreaker guards calls into the record store. While open, Execute
// fails fast without invoking fn.
type CircuitBreaker interface {
	Execute(fn func() (any, error)) (any, error)
	State() State
}

// Passthrough never trips. The in-memory store and unit tests use it.
type Passthrough struct{}

func (Passthrough) Execute(fn func() (any, error)) (any, error) { return fn() }
func (Passthrough) State() State                                { return Closed }
