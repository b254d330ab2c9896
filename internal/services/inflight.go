package services

import "sync"

// InFlight tracks form sessions with a submission outstanding so a second
// submit of the same form is refused until the first one resolves.
type InFlight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{active: make(map[string]struct{})}
}

// Acquire marks id as submitting. It returns false if id already is.
func (g *InFlight) Acquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[id]; busy {
		return false
	}
	g.active[id] = struct{}{}
	return true
}

func (g *InFlight) Release(id string) {
	g.mu.Lock()
	delete(g.active, id)
	g.mu.Unlock()
}

func (g *InFlight) Active(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.active[id]
	return busy
}
