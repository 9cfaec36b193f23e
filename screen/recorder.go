package screen

import (
	"encoding/json"
	"fmt"
	"io"
)

// LineRecorder writes a session log in the line-oriented format
// original_source/tmux.py's replay module used: one line per event,
// `<unix-seconds>:<KIND> <payload>`, with WRITE payloads JSON-encoded so
// embedded control bytes survive a text log (spec.md §6 names recording
// as an external collaborator; this is the concrete writer half of it —
// replay is explicitly out of scope).
type LineRecorder struct {
	w   io.Writer
	now func() int64
}

// NewLineRecorder wraps w. now supplies the Unix timestamp for each
// line; callers pass time.Now().Unix in production and a fixed stub in
// tests.
func NewLineRecorder(w io.Writer, now func() int64) *LineRecorder {
	return &LineRecorder{w: w, now: now}
}

// Size logs a terminal resize event.
func (r *LineRecorder) Size(height, width int) {
	fmt.Fprintf(r.w, "%d:SIZE %d %d\n", r.now(), height, width)
}

// Write logs a chunk of child output.
func (r *LineRecorder) Write(data []byte) {
	encoded, err := json.Marshal(string(data))
	if err != nil {
		return
	}
	fmt.Fprintf(r.w, "%d:WRITE %s\n", r.now(), encoded)
}
