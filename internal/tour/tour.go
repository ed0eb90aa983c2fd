// Package tour implements guided-tour progression as a value-typed state
// machine. Every transition returns a new Progress and never fails; invalid
// transitions leave the progress unchanged.
package tour

import (
	"time"

	"github.com/papapumpkin/atlas/internal/model"
)

// Phase is the coarse state of a tour.
type Phase int

const (
	Idle Phase = iota
	Active
	Paused
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Direction selects the neighbouring stage for Advance.
type Direction int

const (
	Next Direction = iota
	Previous
)

// ParseDirection maps "next" and "previous" (or "prev") to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "next":
		return Next, true
	case "previous", "prev":
		return Previous, true
	}
	return Next, false
}

// PauseRecord is captured when a tour is paused.
type PauseRecord struct {
	TourID     string
	StageIndex int
	PausedAt   time.Time
}

// Progress is the tour portion of the view state. The zero value is Idle.
// While Tour is non-nil, StageIndex is a valid index into Tour.Stages.
type Progress struct {
	Tour       *model.Tour
	StageIndex int
	Paused     bool
	Record     *PauseRecord
}

// Phase reports the coarse state.
func (p Progress) Phase() Phase {
	switch {
	case p.Tour == nil:
		return Idle
	case p.Paused:
		return Paused
	default:
		return Active
	}
}

// Stage returns the current stage.
func (p Progress) Stage() (model.TourStage, bool) {
	if p.Tour == nil || p.StageIndex < 0 || p.StageIndex >= len(p.Tour.Stages) {
		return model.TourStage{}, false
	}
	return p.Tour.Stages[p.StageIndex], true
}

// IsFirst reports whether the current stage is the first one.
func (p Progress) IsFirst() bool {
	return p.Tour != nil && p.StageIndex == 0
}

// IsLast reports whether the current stage is the last one.
func (p Progress) IsLast() bool {
	return p.Tour != nil && p.StageIndex == len(p.Tour.Stages)-1
}

// Start begins t at its first stage. A tour without stages cannot hold a
// valid stage index, so starting one leaves p unchanged.
func (p Progress) Start(t model.Tour) Progress {
	if len(t.Stages) == 0 {
		return p
	}
	return Progress{Tour: &t, StageIndex: 0}
}

// Advance moves one stage in dir, stopping at either end. It does nothing
// while idle or paused.
func (p Progress) Advance(dir Direction) Progress {
	if p.Phase() != Active {
		return p
	}
	switch dir {
	case Next:
		if p.StageIndex < len(p.Tour.Stages)-1 {
			p.StageIndex++
		}
	case Previous:
		if p.StageIndex > 0 {
			p.StageIndex--
		}
	}
	return p
}

// GoTo jumps to stage i when it exists. It does nothing while idle or paused.
func (p Progress) GoTo(i int) Progress {
	if p.Phase() != Active || i < 0 || i >= len(p.Tour.Stages) {
		return p
	}
	p.StageIndex = i
	return p
}

// Pause records the current stage and marks the tour paused. It does nothing
// when idle or already paused.
func (p Progress) Pause(now time.Time) Progress {
	if p.Phase() != Active {
		return p
	}
	p.Paused = true
	p.Record = &PauseRecord{TourID: p.Tour.ID, StageIndex: p.StageIndex, PausedAt: now}
	return p
}

// Resume restores the stage captured by Pause and clears the record.
func (p Progress) Resume() Progress {
	if p.Phase() != Paused {
		return p
	}
	if p.Record != nil && p.Record.StageIndex >= 0 && p.Record.StageIndex < len(p.Tour.Stages) {
		p.StageIndex = p.Record.StageIndex
	}
	p.Paused = false
	p.Record = nil
	return p
}

// ClearPause drops the pause record and the paused flag, keeping the tour.
func (p Progress) ClearPause() Progress {
	p.Paused = false
	p.Record = nil
	return p
}

// Exit returns to Idle.
func (p Progress) Exit() Progress {
	return Progress{}
}
