package session

import (
	"sort"
	"sync"
)

// Registry tracks live sessions for display only. It never aggregates
// counters across sessions; readers take snapshots.
type Registry struct {
	lock     sync.RWMutex
	sessions map[uint64]*Session
	total    uint64
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uint64]*Session)}
}

func (r *Registry) Add(s *Session) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.sessions[s.ID] = s
	r.total++
}

func (r *Registry) Remove(s *Session) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.sessions, s.ID)
}

func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.sessions)
}

// Accepted is the number of sessions ever added.
func (r *Registry) Accepted() uint64 {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.total
}

// Snapshot returns the live sessions ordered by start time.
func (r *Registry) Snapshot() []Snapshot {
	r.lock.RLock()
	out := make([]Snapshot, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Snapshot())
	}
	r.lock.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Started.Equal(out[j].Started) {
			return out[i].ID < out[j].ID
		}
		return out[i].Started.Before(out[j].Started)
	})
	return out
}
