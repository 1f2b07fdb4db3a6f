package entity

import (
	"fmt"
	"time"
)

// Outcome is the result of a single create-post attempt
type Outcome struct {
	Index      int           `json:"index"`
	OK         bool          `json:"ok"`
	StatusCode int           `json:"status_code,omitempty"`
	PostID     string        `json:"post_id,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Latency    time.Duration `json:"latency_ns"`
}

// Success records an attempt that received a 2xx response
func Success(index, statusCode int, postID string) Outcome {
	return Outcome{Index: index, OK: true, StatusCode: statusCode, PostID: postID}
}

// Failure records an attempt that failed with the given reason
func Failure(index int, reason string) Outcome {
	return Outcome{Index: index, Reason: reason}
}

// Line renders the transcript line for this outcome out of total attempts
func (o Outcome) Line(total int) string {
	if o.OK {
		return fmt.Sprintf("[%d/%d] Created post #%d - OK", o.Index, total, o.Index)
	}
	return fmt.Sprintf("[%d/%d] Failed post #%d - %s", o.Index, total, o.Index, o.Reason)
}

// Tally holds the running success and failure counts
type Tally struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Add counts one outcome
func (t *Tally) Add(o Outcome) {
	if o.OK {
		t.Success++
		return
	}
	t.Failed++
}

// Attempts returns the number of outcomes counted so far
func (t Tally) Attempts() int {
	return t.Success + t.Failed
}

// Summary renders the closing transcript line
func (t Tally) Summary() string {
	return fmt.Sprintf("Done! Success: %d, Failed: %d", t.Success, t.Failed)
}
