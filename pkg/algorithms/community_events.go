package algorithms

import "github.com/dd0wney/cluso-communities/pkg/partition"

// DefaultStableThreshold is the Jaccard similarity a community pair must
// exceed to count as stable
const DefaultStableThreshold = 0.8

// EventKind names a community transition between two snapshots
type EventKind string

const (
	EventBirth  EventKind = "birth"
	EventDeath  EventKind = "death"
	EventMerge  EventKind = "merge"
	EventSplit  EventKind = "split"
	EventStable EventKind = "stable"
)

// EventKinds lists every kind in reporting order
var EventKinds = []EventKind{EventBirth, EventDeath, EventMerge, EventSplit, EventStable}

// MergeEvent records a next-snapshot community overlapping several previous ones
type MergeEvent struct {
	New  partition.Community   `json:"new"`
	From []partition.Community `json:"from"`
}

// SplitEvent records a previous community overlapping several next ones
type SplitEvent struct {
	Old partition.Community   `json:"old"`
	To  []partition.Community `json:"to"`
}

// EventSet holds the transitions between two consecutive partitions
type EventSet struct {
	Birth  []partition.Community `json:"birth"`
	Death  []partition.Community `json:"death"`
	Merge  []MergeEvent          `json:"merge"`
	Split  []SplitEvent          `json:"split"`
	Stable []partition.Community `json:"stable"`
}

// Count returns the number of events of the given kind
func (e *EventSet) Count(kind EventKind) int {
	switch kind {
	case EventBirth:
		return len(e.Birth)
	case EventDeath:
		return len(e.Death)
	case EventMerge:
		return len(e.Merge)
	case EventSplit:
		return len(e.Split)
	case EventStable:
		return len(e.Stable)
	default:
		return 0
	}
}

// TrackOptions configures event classification
type TrackOptions struct {
	// StableThreshold is the Jaccard bar for stability (default DefaultStableThreshold)
	StableThreshold float64
	// DedupStable keeps a next community at most once in Stable, even when
	// it is similar to several previous communities
	DedupStable bool
}

// DefaultTrackOptions returns the literal classification: threshold 0.8,
// duplicates kept
func DefaultTrackOptions() TrackOptions {
	return TrackOptions{StableThreshold: DefaultStableThreshold}
}

// TrackEvents classifies transitions from prev to next with default options
func TrackEvents(prev, next partition.Partition) *EventSet {
	return TrackEventsWithOptions(prev, next, DefaultTrackOptions())
}

// TrackEventsWithOptions classifies transitions from prev to next.
// Every category is an independent pass over the two partitions, so one
// community can show up in several categories.
func TrackEventsWithOptions(prev, next partition.Partition, opts TrackOptions) *EventSet {
	threshold := opts.StableThreshold
	if threshold <= 0 {
		threshold = DefaultStableThreshold
	}

	events := &EventSet{
		Birth:  make([]partition.Community, 0),
		Death:  make([]partition.Community, 0),
		Merge:  make([]MergeEvent, 0),
		Split:  make([]SplitEvent, 0),
		Stable: make([]partition.Community, 0),
	}

	// overlap[i][j] = |prev[i] ∩ next[j]|
	overlap := make([][]int, len(prev))
	for i, c1 := range prev {
		overlap[i] = make([]int, len(next))
		for j, c2 := range next {
			overlap[i][j] = c1.IntersectionSize(c2)
		}
	}

	for j, c2 := range next {
		matches := make([]partition.Community, 0)
		for i, c1 := range prev {
			if overlap[i][j] > 0 {
				matches = append(matches, c1)
			}
		}
		if len(matches) == 0 {
			events.Birth = append(events.Birth, c2)
		}
		if len(matches) > 1 {
			events.Merge = append(events.Merge, MergeEvent{New: c2, From: matches})
		}
	}

	for i, c1 := range prev {
		matches := make([]partition.Community, 0)
		for j, c2 := range next {
			if overlap[i][j] > 0 {
				matches = append(matches, c2)
			}
		}
		if len(matches) == 0 {
			events.Death = append(events.Death, c1)
		}
		if len(matches) > 1 {
			events.Split = append(events.Split, SplitEvent{Old: c1, To: matches})
		}
	}

	for j, c2 := range next {
		for i, c1 := range prev {
			if overlap[i][j] == 0 {
				continue
			}
			if c1.Jaccard(c2) > threshold {
				events.Stable = append(events.Stable, c2)
				if opts.DedupStable {
					break
				}
			}
		}
	}

	return events
}
