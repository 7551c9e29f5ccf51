package implementation

import (
	"github.com/jt828/api-relay/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

type gobreakerCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[any]
}

func NewCircuitBreaker(settings gobreaker.Settings) circuitbreaker.CircuitBreaker {
	return &gobreakerCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (g *gobreakerCircuitBreaker) Execute(fn func() (any, error)) (any, error) {
	return g.cb.Execute(fn)
}

func (g *gobreakerCircuitBreaker) State() circuitbreaker.State {
	return fromGobreaker(g.cb.State())
}

func fromGobreaker(s gobreaker.State) circuitbreaker.State {
	switch s {
	case gobreaker.StateHalfOpen:
		return circuitbreaker.HalfOpen
	case gobreaker.StateOpen:
		return circuitbreaker.Open
	default:
		return circuitbreaker.Closed
	}
}

// OnStateChange adapts a callback on the package's own State type to the
// gobreaker settings hook.
func OnStateChange(fn func(name string, from, to circuitbreaker.State)) func(string, gobreaker.State, gobreaker.State) {
	return func(name string, from, to gobreaker.State) {
		fn(name, fromGobreaker(from), fromGobreaker(to))
	}
}
