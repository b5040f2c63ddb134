// Package badges classifies learners into behavioral badges relative to the
// rest of the class.
package badges

import (
	"github.com/peerstat/peerstat/internal/ledger"
	"github.com/peerstat/peerstat/internal/peer"
)

// Thresholds for each rule, as fractions of the learner's answered count.
const (
	OutlierShare    = 0.5
	ConformistShare = 0.8
	ExplorerShare   = 0.3
	SilentShare     = 0.2
	DebaterShare    = 0.8
)

// ClassView is the class-wide data the classifier reads.
type ClassView interface {
	Learner(username string) *ledger.Ledger
	Distribution(qid string, choices []string) peer.Distribution
}

// Stats are the counts the badge rules are evaluated on.
type Stats struct {
	Answered      int
	ModeMatches   int
	Outliers      int
	MultiAttempts int
	Reasoned      int
}

// Collect gathers the learner's stats. Each answered question is compared
// with the class mode among the learners who answered it.
func Collect(l *ledger.Ledger, view ClassView) Stats {
	s := Stats{
		Answered:      l.AnswerCount(),
		MultiAttempts: l.CountAttemptsAtLeast(2),
		Reasoned:      l.CountReasoned(),
	}
	for _, qid := range l.AnsweredIDs() {
		ans, _ := l.Answer(qid)
		d := view.Distribution(qid, nil)
		if ans.Value == d.Mode {
			s.ModeMatches++
		} else {
			s.Outliers++
		}
	}
	return s
}

// Classify returns username's badges in display order. A learner with no
// answers, or unknown to the view, has none.
func Classify(username string, view ClassView, totalQuestions int) []Badge {
	l := view.Learner(username)
	if l == nil {
		return nil
	}
	return Evaluate(Collect(l, view), totalQuestions)
}

// Evaluate applies the badge rules to s. Rules are independent except that
// Silent Type and Debater exclude each other.
func Evaluate(s Stats, totalQuestions int) []Badge {
	if s.Answered == 0 {
		return nil
	}
	n := float64(s.Answered)

	var out []Badge
	if float64(s.Outliers) > OutlierShare*n {
		out = append(out, Outlier)
	}
	if float64(s.ModeMatches) > ConformistShare*n {
		out = append(out, Conformist)
	}
	if float64(s.MultiAttempts)/n > ExplorerShare {
		out = append(out, Explorer)
	}
	reasoned := float64(s.Reasoned) / n
	if reasoned < SilentShare {
		out = append(out, SilentType)
	} else if reasoned > DebaterShare {
		out = append(out, Debater)
	}
	if totalQuestions > 0 && s.Answered == totalQuestions {
		out = append(out, Completionist)
	}
	return out
}
