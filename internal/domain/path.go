package domain

import (
	"fmt"
	"strings"
)

const (
	// PathMinLen and PathMaxLen bound the number of devices in one chain.
	PathMinLen = 2
	PathMaxLen = 5
)

// PathStep is one device on a discovered chain plus the similarity of the hop
// that reached it. Similarity is zero for the trigger step.
type PathStep struct {
	Device     Device
	Similarity float64
}

// Path is an ordered chain of 2-5 distinct devices discovered in one traversal
// run, with its aggregate score. Paths are transient artifacts of a single run;
// persistence, if any, belongs to the downstream suggestion pipeline.
type Path struct {
	Steps []PathStep
	Score float64
}

// Depth is the number of hops, i.e. len(steps) - 1.
func (p Path) Depth() int {
	return len(p.Steps) - 1
}

// DeviceIDs returns the ordered device ids of the chain.
func (p Path) DeviceIDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.Device.ID
	}
	return ids
}

// TriggerID is the id of the device the search started from.
func (p Path) TriggerID() string {
	if len(p.Steps) == 0 {
		return ""
	}
	return p.Steps[0].Device.ID
}

// Key is a stable identity for ordering and deduplication: the joined device ids.
func (p Path) Key() string {
	return strings.Join(p.DeviceIDs(), ">")
}

// Validate enforces the chain invariants: bounded length and no repeated device.
func (p Path) Validate() error {
	if len(p.Steps) < PathMinLen || len(p.Steps) > PathMaxLen {
		return NewValidationErr(fmt.Sprintf("path must contain between %d and %d devices, got %d", PathMinLen, PathMaxLen, len(p.Steps)))
	}
	seen := make(map[string]struct{}, len(p.Steps))
	for _, s := range p.Steps {
		if _, ok := seen[s.Device.ID]; ok {
			return NewValidationErr(fmt.Sprintf("device %s appears twice in path", s.Device.ID))
		}
		seen[s.Device.ID] = struct{}{}
	}
	return nil
}
