package animation

import "fmt"

// RepeatMode selects how many times a playing clip cycles before it finishes.
type RepeatMode int

const (
	RepeatModeNever RepeatMode = iota
	RepeatModeCount
	RepeatModeForever
)

// RepeatAnimation is the repeat policy of a playing clip.
// The zero value plays the clip once.
type RepeatAnimation struct {
	Mode  RepeatMode
	Count uint32
}

// Never plays the clip once.
func Never() RepeatAnimation {
	return RepeatAnimation{Mode: RepeatModeNever}
}

// Count plays the clip n times in total.
func Count(n uint32) RepeatAnimation {
	return RepeatAnimation{Mode: RepeatModeCount, Count: n}
}

// Forever loops the clip indefinitely.
func Forever() RepeatAnimation {
	return RepeatAnimation{Mode: RepeatModeForever}
}

// finished reports whether completions cycles exhaust the policy.
func (r RepeatAnimation) finished(completions uint32) bool {
	switch r.Mode {
	case RepeatModeForever:
		return false
	case RepeatModeCount:
		return completions >= r.Count
	default:
		return completions >= 1
	}
}

func (r RepeatAnimation) String() string {
	switch r.Mode {
	case RepeatModeForever:
		return "Forever"
	case RepeatModeCount:
		return fmt.Sprintf("Count(%d)", r.Count)
	default:
		return "Never"
	}
}
