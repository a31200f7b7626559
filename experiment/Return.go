package experiment

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Return tracks the episodic return of an experiment. Rewards are
// accumulated per episode; on a terminal or episode-final step the
// accumulated return is cached. Save writes all cached returns to
// disk.
type Return struct {
	currentReturn  float64
	active         bool
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new Return tracker saving to
// filename
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track accumulates the reward of one step. A step with Number 0
// starts a new episode: the return of the unfinished previous episode,
// if any, is cached first.
func (r *Return) Track(step Step) {
	if step.Number == 0 && r.active {
		r.flush()
	}

	r.active = true
	r.currentReturn += step.Reward
	if step.Done {
		r.flush()
	}
}

// Returns returns the cached episodic returns so far
func (r *Return) Returns() []float64 {
	return r.episodeReturns
}

// Save gob-encodes the cached episodic returns to the tracker's file
func (r *Return) Save() error {
	file, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(r.episodeReturns); err != nil {
		return fmt.Errorf("save: could not encode return data: %v", err)
	}
	return nil
}

func (r *Return) flush() {
	r.episodeReturns = append(r.episodeReturns, r.currentReturn)
	r.currentReturn = 0
	r.active = false
}

// LoadReturns reads episodic returns saved by a Return tracker
func LoadReturns(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadReturns: %v", err)
	}
	defer file.Close()

	var returns []float64
	if err := gob.NewDecoder(file).Decode(&returns); err != nil {
		return nil, fmt.Errorf("loadReturns: %v", err)
	}
	return returns, nil
}
