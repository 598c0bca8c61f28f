package notice

// State is the ordered collection of notices, newest first.
//
// States are values: transitions never modify the Notices slice of an
// existing State, so a State may be shared between readers. Readers must not
// modify it either.
type State struct {
	Notices []Notice
}

// Len returns the number of notices held.
func (s State) Len() int {
	return len(s.Notices)
}

// Find returns the notice with the given id.
func (s State) Find(id string) (Notice, bool) {
	if i := s.index(id); i >= 0 {
		return s.Notices[i], true
	}
	return Notice{}, false
}

// Clone returns a copy that does not share storage with s.
func (s State) Clone() State {
	if s.Notices == nil {
		return State{}
	}
	out := make([]Notice, len(s.Notices))
	copy(out, s.Notices)
	return State{Notices: out}
}

func (s State) index(id string) int {
	for i := range s.Notices {
		if s.Notices[i].ID == id {
			return i
		}
	}
	return -1
}

// Action is a queue transition. The set of actions is closed: Add, Update,
// SetVisibility and Remove.
type Action interface {
	apply(s State, capacity int) (State, bool)
}

// Add prepends a notice, evicting the oldest entries beyond capacity. A
// notice whose ID is already queued is refused.
type Add struct {
	Notice Notice
}

// Update merges Patch into the notice with the given ID.
type Update struct {
	ID    string
	Patch Patch
}

// SetVisibility sets the visible flag of the notice with the given ID.
type SetVisibility struct {
	ID      string
	Visible bool
}

// Remove drops the notice with the given ID, or every notice when All is set.
type Remove struct {
	ID  string
	All bool
}

// RemoveAll returns the action that clears the queue.
func RemoveAll() Remove {
	return Remove{All: true}
}

func (a Add) apply(s State, capacity int) (State, bool) {
	n := min(len(s.Notices)+1, capacity)
	if n <= 0 || s.index(a.Notice.ID) >= 0 {
		return s, false
	}
	out := make([]Notice, 0, n)
	out = append(out, a.Notice)
	out = append(out, s.Notices[:n-1]...)
	return State{Notices: out}, true
}

func (a Update) apply(s State, _ int) (State, bool) {
	i := s.index(a.ID)
	if i < 0 {
		return s, false
	}
	merged, changed := s.Notices[i].merge(a.Patch)
	if !changed {
		return s, false
	}
	return s.replace(i, merged), true
}

func (a SetVisibility) apply(s State, _ int) (State, bool) {
	i := s.index(a.ID)
	if i < 0 || s.Notices[i].Visible == a.Visible {
		return s, false
	}
	n := s.Notices[i]
	n.Visible = a.Visible
	return s.replace(i, n), true
}

func (a Remove) apply(s State, _ int) (State, bool) {
	if a.All {
		if len(s.Notices) == 0 {
			return s, false
		}
		return State{}, true
	}

	i := s.index(a.ID)
	if i < 0 {
		return s, false
	}
	out := make([]Notice, 0, len(s.Notices)-1)
	out = append(out, s.Notices[:i]...)
	out = append(out, s.Notices[i+1:]...)
	return State{Notices: out}, true
}

func (s State) replace(i int, n Notice) State {
	out := make([]Notice, len(s.Notices))
	copy(out, s.Notices)
	out[i] = n
	return State{Notices: out}
}

// Queue applies actions under a fixed capacity.
type Queue struct {
	capacity int
}

// NewQueue returns a Queue holding at most capacity notices. Capacities
// below one are raised to one.
func NewQueue(capacity int) Queue {
	return Queue{capacity: max(capacity, 1)}
}

// Capacity returns the maximum number of notices retained. The zero Queue
// holds one.
func (q Queue) Capacity() int {
	return max(q.capacity, 1)
}

// Reduce applies a to s and returns the resulting state. The bool reports
// whether anything changed; when it is false the returned state is s.
// Reduce never modifies s and never panics.
func (q Queue) Reduce(s State, a Action) (State, bool) {
	if a == nil {
		return s, false
	}
	return a.apply(s, q.Capacity())
}
