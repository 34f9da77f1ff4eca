package commit

// State is a step of the commit state machine.
type State string

const (
	StateValidating          State = "validating"
	StateUploading           State = "uploading"
	StateReconciling         State = "reconciling"
	StatePersisting          State = "persisting"
	StateDone                State = "done"
	StateCompensatingUploads State = "compensating_uploads"
	StateCompensatingNew     State = "compensating_new"
	StateFailed              State = "failed"
)

// transitions lists the legal successors of each state.
var transitions = map[State][]State{
	StateValidating:          {StateUploading, StateFailed},
	StateUploading:           {StateReconciling, StateCompensatingUploads},
	StateReconciling:         {StatePersisting},
	StatePersisting:          {StateDone, StateCompensatingNew},
	StateCompensatingUploads: {StateFailed},
	StateCompensatingNew:     {StateFailed},
}

// CanTransition reports whether the machine may move from one state to the next.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends a commit.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
