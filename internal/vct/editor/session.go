package editor

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"vctbuilder/internal/vct/models"
	dErrors "vctbuilder/pkg/domain-errors"
)

// ErrStaleIntegrity is returned when a hash result arrives after its target
// was edited or a newer request for the same target was started.
var ErrStaleIntegrity = errors.New("stale integrity result")

// State is everything the editor holds for the single user.
type State struct {
	Doc         models.VCT
	Sample      models.SampleData
	ProjectID   uuid.UUID // uuid.Nil when no project is current
	ProjectName string
}

func (st State) clone() State {
	return State{
		Doc:         st.Doc.Clone(),
		Sample:      st.Sample.Clone(),
		ProjectID:   st.ProjectID,
		ProjectName: st.ProjectName,
	}
}

// HasProject reports whether a saved project is current.
func (st State) HasProject() bool {
	return st.ProjectID != uuid.Nil
}

// Ticket identifies one in-flight integrity request.
type Ticket struct {
	Target     Target
	URI        string
	generation uint64
	epoch      uint64
}

// Session owns the current document. Every change goes through the mutex, so
// readers never observe a partially applied edit. Reads return deep copies.
type Session struct {
	mu          sync.Mutex
	state       State
	epoch       uint64
	generations map[Target]uint64
}

// NewSession starts with a fresh default document and no current project.
func NewSession() *Session {
	return &Session{
		state:       freshState(),
		generations: make(map[Target]uint64),
	}
}

func freshState() State {
	return State{
		Doc:         models.NewDocument(),
		Sample:      models.SampleData{},
		ProjectName: models.UntitledName,
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Document returns a deep copy of the current document.
func (s *Session) Document() models.VCT {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Doc.Clone()
}

// Apply runs t against the current document and commits the result. On error
// the document is unchanged.
func (s *Session) Apply(t Transition) (models.VCT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := t(s.state.Doc)
	if err != nil {
		return models.VCT{}, err
	}
	s.commitDoc(next)
	return next.Clone(), nil
}

// Update runs fn over a copy of the whole state and commits it when fn
// succeeds. Use it for changes that touch more than the document.
func (s *Session) Update(fn func(st *State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(&draft); err != nil {
		return State{}, err
	}
	if draft.Sample == nil {
		draft.Sample = models.SampleData{}
	}
	s.commitDoc(draft.Doc)
	s.state.Sample = draft.Sample
	s.state.ProjectID = draft.ProjectID
	s.state.ProjectName = draft.ProjectName
	return s.state.clone(), nil
}

// Replace swaps in a new state wholesale, e.g. on load, import or new.
// Every outstanding integrity ticket becomes stale.
func (s *Session) Replace(st State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = st.clone()
	if s.state.Sample == nil {
		s.state.Sample = models.SampleData{}
	}
	s.epoch++
	clear(s.generations)
	return s.state.clone()
}

// Reset returns the session to a fresh default document.
func (s *Session) Reset() State {
	return s.Replace(freshState())
}

// ResetProject resets the session only when id is the current project.
func (s *Session) ResetProject(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == uuid.Nil || s.state.ProjectID != id {
		return false
	}
	s.state = freshState()
	s.epoch++
	clear(s.generations)
	return true
}

// SetSampleValue sets one sample value; an empty value removes the key.
func (s *Session) SetSampleValue(key, value string) models.SampleData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.state.Sample, key)
	} else {
		s.state.Sample[key] = value
	}
	return s.state.Sample.Clone()
}

// SetSampleData replaces all sample values.
func (s *Session) SetSampleData(data models.SampleData) models.SampleData {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Sample = data.Clone()
	return s.state.Sample.Clone()
}

// BeginIntegrity records a new request for target and returns its ticket.
// Any earlier ticket for the same target becomes stale.
func (s *Session) BeginIntegrity(t Target) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uri, ok := t.URI(s.state.Doc)
	if !ok || uri == "" {
		return Ticket{}, dErrors.Newf(dErrors.CodeNotFound, "%s has no uri", t)
	}
	s.generations[t]++
	return Ticket{Target: t, URI: uri, generation: s.generations[t], epoch: s.epoch}, nil
}

// CompleteIntegrity applies hash for ticket unless the ticket went stale.
func (s *Session) CompleteIntegrity(ticket Ticket, hash string) (models.VCT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.epoch != s.epoch || ticket.generation != s.generations[ticket.Target] {
		return models.VCT{}, ErrStaleIntegrity
	}
	if uri, ok := ticket.Target.URI(s.state.Doc); !ok || uri != ticket.URI {
		return models.VCT{}, ErrStaleIntegrity
	}
	next, err := SetIntegrity(ticket.Target, hash)(s.state.Doc)
	if err != nil {
		return models.VCT{}, err
	}
	s.state.Doc = next
	return next.Clone(), nil
}

// commitDoc stores next and invalidates tickets whose target URI changed.
// Caller holds mu.
func (s *Session) commitDoc(next models.VCT) {
	for t := range s.generations {
		before, _ := t.URI(s.state.Doc)
		after, ok := t.URI(next)
		if !ok || before != after {
			s.generations[t]++
		}
	}
	s.state.Doc = next
}
