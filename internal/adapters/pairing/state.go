package pairing

// State is a pairing channel lifecycle state.
type State string

// Channel states.
const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateListening  State = "listening"
	StateConnected  State = "connected"
	StateRetrying   State = "retrying"
	StateError      State = "error"
)

// States lists every state in lifecycle order.
var States = []State{StateIdle, StateConnecting, StateListening, StateConnected, StateRetrying, StateError}

var statusText = map[State]string{
	StateIdle:       "Idle",
	StateConnecting: "Connecting…",
	StateListening:  "Waiting for partner",
	StateConnected:  "Connected",
	StateRetrying:   "Reconnecting…",
	StateError:      "An error occurred",
}

// Status is the human-readable label for s.
func (s State) Status() string {
	if t, ok := statusText[s]; ok {
		return t
	}
	return string(s)
}

// transitions is the table of legal moves. Every state may be re-entered
// through connect or restart, so connecting and listening are reachable
// from anywhere.
var transitions = map[State]map[State]bool{
	StateIdle: {
		StateConnecting: true, StateListening: true,
	},
	StateConnecting: {
		StateConnected: true, StateRetrying: true, StateError: true,
		StateConnecting: true, StateListening: true, StateIdle: true,
	},
	StateListening: {
		StateConnected: true, StateRetrying: true, StateError: true,
		StateConnecting: true, StateListening: true, StateIdle: true,
	},
	StateConnected: {
		StateRetrying: true, StateError: true,
		StateConnecting: true, StateListening: true, StateIdle: true,
	},
	StateRetrying: {
		StateConnected: true, StateError: true,
		StateConnecting: true, StateListening: true, StateIdle: true,
	},
	StateError: {
		StateConnecting: true, StateListening: true, StateIdle: true,
	},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to State) bool {
	return transitions[from][to]
}
