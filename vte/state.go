package vte

import "fmt"

// State is one node of the byte-level escape-sequence state machine
// (spec.md §4.3/§9: a ground -> escape -> CSI-params -> final pipeline,
// the design notes' preferred realization of the sequence table over a
// regex scan). The full transition table lives in parser.go; State only
// names the nodes and gives them a readable label for logging.
type State uint8

const (
	StateGround State = iota
	StateEscape
	StateEscapeIntermediate
	StateCSIEntry
	StateCSIParam
	StateCSIIntermediate
	StateCSIIgnore
	StateOSCString
	StateDCSEntry
	StateDCSParam
	StateDCSIntermediate
	StateDCSPassthrough
	StateDCSIgnore
	StateSOSPMApcString
)

var stateNames = [...]string{
	"Ground",
	"Escape",
	"EscapeIntermediate",
	"CSIEntry",
	"CSIParam",
	"CSIIntermediate",
	"CSIIgnore",
	"OSCString",
	"DCSEntry",
	"DCSParam",
	"DCSIntermediate",
	"DCSPassthrough",
	"DCSIgnore",
	"SOSPMApcString",
}

// String renders s for diagnostics (e.g. an "unhandled escape" log line).
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("Unknown(%d)", s)
}
