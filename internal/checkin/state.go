// Package checkin holds the per-operator check-in desk: a small state machine that
// drives one scan or manual search at a time through CheckInService.
package checkin

import "activitycheckin/internal/domain"

// State is one of Idle, Resolving, Resolved, Confirming, Done or Failed.
type State interface {
	Name() string
	isState()
}

// Idle waits for a scan or search. Message carries the last manual search failure, if any.
type Idle struct {
	Message string
}

// Resolving is in flight: a token or national id lookup has been sent.
type Resolving struct {
	Manual bool
}

// Resolved shows the registration found and waits for a seat number.
type Resolved struct {
	Resolution *domain.Resolution
	Message    string
}

// Confirming is in flight: the check-in write has been sent.
type Confirming struct {
	Resolution *domain.Resolution
	Seat       string
}

// Done shows the confirmed check-in until the display timer returns the desk to Idle.
type Done struct {
	Registration *domain.Registration
	ActivityName string
}

// Failed shows a scan error until the display timer returns the desk to Idle.
type Failed struct {
	Message string
}

func (Idle) Name() string       { return "idle" }
func (Resolving) Name() string  { return "resolving" }
func (Resolved) Name() string   { return "resolved" }
func (Confirming) Name() string { return "confirming" }
func (Done) Name() string       { return "done" }
func (Failed) Name() string     { return "failed" }

func (Idle) isState()       {}
func (Resolving) isState()  {}
func (Resolved) isState()   {}
func (Confirming) isState() {}
func (Done) isState()       {}
func (Failed) isState()     {}

// Snapshot is the wire form of a desk state.
// swagger:model DeskSnapshot
type Snapshot struct {
	State        string               `json:"state"`
	Message      string               `json:"message,omitempty"`
	Resolution   *domain.Resolution   `json:"resolution,omitempty"`
	Registration *domain.Registration `json:"registration,omitempty"`
}

// SnapshotOf flattens s for rendering.
func SnapshotOf(s State) Snapshot {
	snap := Snapshot{State: s.Name()}
	switch st := s.(type) {
	case Idle:
		snap.Message = st.Message
	case Resolving:
	case Resolved:
		snap.Message = st.Message
		snap.Resolution = st.Resolution
	case Confirming:
		snap.Resolution = st.Resolution
	case Done:
		snap.Registration = st.Registration
		snap.Resolution = &domain.Resolution{Registration: st.Registration, ActivityName: st.ActivityName, Matches: 1}
	case Failed:
		snap.Message = st.Message
	}
	return snap
}

func inFlight(s State) bool {
	switch s.(type) {
	case Resolving, Confirming:
		return true
	default:
		return false
	}
}
