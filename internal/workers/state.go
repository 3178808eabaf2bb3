package workers

// State is the lifecycle state of a worker unit.
//
//	Idle → Accepting → Handling → Idle
//	                            → TimedOut → Recycling → Idle
//
// On shutdown every worker ends in Draining and then Stopped.
type State string

const (
	StateIdle      State = "idle"
	StateAccepting State = "accepting"
	StateHandling  State = "handling"
	StateTimedOut  State = "timed_out"
	StateRecycling State = "recycling"
	StateDraining  State = "draining"
	StateStopped   State = "stopped"
)

// Transition describes one state change of a worker unit.
type Transition struct {
	Slot     int
	WorkerID string
	From     State
	To       State
}

// Snapshot is a point-in-time copy of a worker unit's bookkeeping.
type Snapshot struct {
	Slot        int    `json:"slot"`
	WorkerID    string `json:"worker_id"`
	Incarnation int    `json:"incarnation"`
	State       State  `json:"state"`
	Handled     uint64 `json:"handled"`
	TimedOut    uint64 `json:"timed_out"`
	Panicked    uint64 `json:"panicked"`
}

// worker is the pool's record of one slot. All fields are guarded by
// Pool.mu.
type worker struct {
	slot        int
	id          string
	incarnation int
	state       State
	handled     uint64
	timedOut    uint64
	panicked    uint64
}

func (w *worker) snapshot() Snapshot {
	return Snapshot{
		Slot:        w.slot,
		WorkerID:    w.id,
		Incarnation: w.incarnation,
		State:       w.state,
		Handled:     w.handled,
		TimedOut:    w.timedOut,
		Panicked:    w.panicked,
	}
}
