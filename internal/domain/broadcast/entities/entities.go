// Package entities contains broadcast domain entities
package entities

import "time"

// Status is the lifecycle state of a broadcast
type Status string

const (
	StatusPreparing Status = "preparing"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
)

// Terminal reports whether no more messages will be sent
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusStopped
}

// Progress is a snapshot of a broadcast
type Progress struct {
	Operator int64
	Status   Status
	Sent     int
	Failed   int
	Total    int
}

// Processed counts recipients already attempted
func (p Progress) Processed() int {
	return p.Sent + p.Failed
}

// Remaining counts recipients not yet attempted
func (p Progress) Remaining() int {
	return p.Total - p.Processed()
}

// Percent is the share of attempted recipients
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Processed()) / float64(p.Total) * 100
}

// SuccessRate is the share of recipients that received the message
func (p Progress) SuccessRate() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Sent) / float64(p.Total) * 100
}

// Finished is emitted once a broadcast reaches a terminal status
type Finished struct {
	Progress
	StartedAt  time.Time
	FinishedAt time.Time
}
