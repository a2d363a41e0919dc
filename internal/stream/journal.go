// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"github.com/pdiddy/deep-research/pkg/types"
)

// Journal applies the consumer-side ordering contract to a sequence of
// update frames: arrival order is preserved, and a frame with
// overwrite=true replaces the prior frame sharing its id in place instead
// of appending. The zero Journal is not usable; call NewJournal.
type Journal struct {
	entries []types.StreamUpdateData
	latest  map[string]int // step id → index of most recent entry
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{latest: make(map[string]int)}
}

// Apply validates u and folds it into the journal.
func (j *Journal) Apply(u types.StreamUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}
	d := u.Data
	if idx, ok := j.latest[d.ID]; ok && d.Overwrite {
		j.entries[idx] = d
		return nil
	}
	j.entries = append(j.entries, d)
	j.latest[d.ID] = len(j.entries) - 1
	return nil
}

// Len returns the number of coalesced entries.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Snapshot returns the coalesced entries in arrival order. The returned
// slice is a copy; mutating it does not affect the journal.
func (j *Journal) Snapshot() []types.StreamUpdateData {
	out := make([]types.StreamUpdateData, len(j.entries))
	copy(out, j.entries)
	return out
}

// Latest returns the most recent entry for a step id.
func (j *Journal) Latest(id string) (types.StreamUpdateData, bool) {
	idx, ok := j.latest[id]
	if !ok {
		return types.StreamUpdateData{}, false
	}
	return j.entries[idx], true
}

// Progress returns the counters from the most recent progress entry.
// ok is false when no progress entry has arrived yet.
func (j *Journal) Progress() (completed, total int, done bool, ok bool) {
	d, found := j.Latest(ProgressStepID)
	if !found || d.CompletedSteps == nil || d.TotalSteps == nil {
		return 0, 0, false, false
	}
	done = d.IsComplete != nil && *d.IsComplete
	return *d.CompletedSteps, *d.TotalSteps, done, true
}
