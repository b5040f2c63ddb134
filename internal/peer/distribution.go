package peer

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/peerstat/peerstat/internal/ledger"
)

const (
	// ConsensusThreshold is the share at which the class has agreed.
	ConsensusThreshold = 0.70
	// TentativeThreshold starts the cautionary band below consensus. It only
	// affects presentation; the verdict stays "no consensus" below 0.70.
	TentativeThreshold = 0.60
)

// Band is the visual agreement band of a distribution.
type Band string

const (
	BandConsensus Band = "consensus"
	BandTentative Band = "tentative"
	BandSplit     Band = "split"
)

// Distribution is the class-wide tally of answers to one question.
type Distribution struct {
	QuestionID          string
	Keys                []string // sorted
	Counts              map[string]int
	RelativeFrequencies map[string]float64
	Mode                string
	MaxFrequency        float64
	Respondents         int
}

// Compute tallies learners' answers to qid. Every key in choices starts at
// zero; answers outside choices are counted under their own value.
// Frequencies are relative to the learners who answered. The mode is the
// lexically first key with the highest frequency.
func Compute(qid string, choices []string, learners []*ledger.Ledger) Distribution {
	d := Distribution{
		QuestionID:          qid,
		Counts:              make(map[string]int, len(choices)),
		RelativeFrequencies: make(map[string]float64, len(choices)),
	}
	for _, k := range choices {
		d.Counts[k] = 0
	}
	for _, l := range learners {
		ans, ok := l.Answer(qid)
		if !ok {
			continue
		}
		d.Counts[ans.Value]++
		d.Respondents++
	}

	d.Keys = slices.Sorted(maps.Keys(d.Counts))
	for i, k := range d.Keys {
		freq := 0.0
		if d.Respondents > 0 {
			freq = float64(d.Counts[k]) / float64(d.Respondents)
		}
		d.RelativeFrequencies[k] = freq
		if i == 0 || freq > d.MaxFrequency {
			d.Mode = k
			d.MaxFrequency = freq
		}
	}
	return d
}

// ConsensusReached reports whether the mode's share meets ConsensusThreshold.
func (d Distribution) ConsensusReached() bool {
	return d.MaxFrequency >= ConsensusThreshold
}

// Band classifies the distribution for display.
func (d Distribution) Band() Band {
	switch {
	case d.MaxFrequency >= ConsensusThreshold:
		return BandConsensus
	case d.MaxFrequency >= TentativeThreshold:
		return BandTentative
	default:
		return BandSplit
	}
}

// Percent returns the mode's share as a whole percentage.
func (d Distribution) Percent() int {
	return int(math.Round(d.MaxFrequency * 100))
}

// Message returns the textual consensus verdict.
func (d Distribution) Message() string {
	if d.Respondents <= 1 {
		return "You're the first to answer! Import class data to see peer responses."
	}
	if d.ConsensusReached() {
		return fmt.Sprintf("Consensus reached on choice %s (%d%% agreement)", d.Mode, d.Percent())
	}
	return fmt.Sprintf("No consensus yet - highest agreement: %s at %d%%", d.Mode, d.Percent())
}
