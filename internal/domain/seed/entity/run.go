package entity

import "time"

// Run is one execution of the seeding batch
type Run struct {
	ID          string    `json:"id"`
	Endpoint    string    `json:"endpoint"`
	Community   string    `json:"community"`
	Requested   int       `json:"requested"`
	Tally       Tally     `json:"tally"`
	Outcomes    []Outcome `json:"-"`
	Interrupted bool      `json:"interrupted"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Duration returns how long the run took
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Complete reports whether every requested attempt was made
func (r *Run) Complete() bool {
	return !r.Interrupted && r.Tally.Attempts() == r.Requested
}
