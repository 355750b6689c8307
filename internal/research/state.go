// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

// State names the resolution phases of a single data point. The stop
// condition of the candidate loops is a terminal state, not a flag.
type State int

const (
	// StatePending means no queries have been planned yet.
	StatePending State = iota

	// StateSearching means the next candidate query is being dispatched.
	StateSearching

	// StateExtracting means candidate pages of the current query are being
	// read in ranking order.
	StateExtracting

	// StateFound is terminal: a page yielded a usable value.
	StateFound

	// StateExhausted is terminal: every query and page was attempted
	// without a usable value.
	StateExhausted
)

// Terminal reports whether resolution stops in this state.
func (s State) Terminal() bool {
	return s == StateFound || s == StateExhausted
}

// String returns the state name for progress output.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSearching:
		return "searching"
	case StateExtracting:
		return "extracting"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}
