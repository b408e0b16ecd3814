package navigation

import (
	"sync"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// Stack is an in-memory navigation tree: a back-stack of routes.
// The CLI attaches one as the live controller.
type Stack struct {
	mu     sync.Mutex
	routes []model.Route

	// OnChange, when set, is called with the new top route after every change.
	OnChange func(top model.Route)
}

// NewStack returns a stack rooted at initial.
func NewStack(initial model.Screen) *Stack {
	return &Stack{routes: []model.Route{{Name: initial}}}
}

func (s *Stack) Navigate(screen model.Screen, params model.Params) {
	s.mu.Lock()
	s.routes = append(s.routes, model.Route{Name: screen, Params: copyParams(params)})
	top := s.routes[len(s.routes)-1]
	s.mu.Unlock()
	s.notify(top)
}

func (s *Stack) Reset(routes []model.Route) {
	s.mu.Lock()
	s.routes = make([]model.Route, 0, len(routes))
	for _, r := range routes {
		s.routes = append(s.routes, model.Route{Name: r.Name, Params: copyParams(r.Params)})
	}
	var top model.Route
	if len(s.routes) > 0 {
		top = s.routes[len(s.routes)-1]
	}
	s.mu.Unlock()
	s.notify(top)
}

// Back pops the top route. The root is never popped.
func (s *Stack) Back() bool {
	s.mu.Lock()
	if len(s.routes) <= 1 {
		s.mu.Unlock()
		return false
	}
	s.routes = s.routes[:len(s.routes)-1]
	top := s.routes[len(s.routes)-1]
	s.mu.Unlock()
	s.notify(top)
	return true
}

// Current returns the top route, or a zero Route when empty.
func (s *Stack) Current() model.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.routes) == 0 {
		return model.Route{}
	}
	return s.routes[len(s.routes)-1]
}

// Routes returns a copy of the back-stack, root first.
func (s *Stack) Routes() []model.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Route, len(s.routes))
	copy(out, s.routes)
	return out
}

func (s *Stack) notify(top model.Route) {
	if s.OnChange != nil {
		s.OnChange(top)
	}
}

func copyParams(p model.Params) model.Params {
	if p == nil {
		return nil
	}
	out := make(model.Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
