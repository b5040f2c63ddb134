// Package ledger records one learner's answers, attempts and votes, and
// enforces the bounded retry policy.
package ledger

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/peerstat/peerstat/internal/document"
)

// MaxAttempts caps submissions per question.
const MaxAttempts = 3

// Ledger is a single learner's answer record.
type Ledger struct {
	username string
	answers  map[string]document.Answer
	attempts map[string]int
	votes    map[string]map[string]document.Vote

	// Clock supplies submission timestamps; time.Now when nil.
	Clock func() time.Time
}

// New returns an empty ledger. The username must not be blank.
func New(username string) (*Ledger, error) {
	if strings.TrimSpace(username) == "" {
		return nil, &ValidationError{Field: "username", Reason: "cannot be empty"}
	}
	return &Ledger{
		username: username,
		answers:  make(map[string]document.Answer),
		attempts: make(map[string]int),
		votes:    make(map[string]map[string]document.Vote),
	}, nil
}

// FromPersonal rebuilds the current learner's ledger from a document.
func FromPersonal(username string, pd document.PersonalData) *Ledger {
	return build(username, pd.Answers, nil, pd.Attempts, pd.Votes)
}

// FromRecord rebuilds a peer's ledger from a class export record. Reasons
// from the side table fill answers that carry no reasoning of their own.
// Answers with a blank value are dropped.
func FromRecord(username string, rec document.LearnerRecord) *Ledger {
	return build(username, rec.Answers, rec.Reasons, rec.Attempts, rec.Votes)
}

func build(username string, answers map[string]document.Answer, reasons map[string]string,
	attempts map[string]int, votes map[string]map[string]document.Vote) *Ledger {
	l := &Ledger{
		username: username,
		answers:  make(map[string]document.Answer, len(answers)),
		attempts: make(map[string]int, len(attempts)),
		votes:    make(map[string]map[string]document.Vote, len(votes)),
	}
	for qid, a := range answers {
		// Blank or null values are unanswered, as Submit would reject them.
		if strings.TrimSpace(a.Value) == "" {
			continue
		}
		if a.Reasoning == "" {
			a.Reasoning = reasons[qid]
		}
		l.answers[qid] = a
		// A stored answer implies at least one submission.
		l.attempts[qid] = max(attempts[qid], 1)
	}
	for qid, byTarget := range votes {
		if len(byTarget) == 0 {
			continue
		}
		l.votes[qid] = maps.Clone(byTarget)
	}
	return l
}

// Username returns the ledger owner's username.
func (l *Ledger) Username() string { return l.username }

// Attempts returns how many submissions were recorded for qid.
func (l *Ledger) Attempts(qid string) int { return l.attempts[qid] }

// IsAnswered reports whether an answer is stored for qid, regardless of
// whether a retry would be allowed.
func (l *Ledger) IsAnswered(qid string) bool {
	_, ok := l.answers[qid]
	return ok
}

// Answer returns the stored answer for qid.
func (l *Ledger) Answer(qid string) (document.Answer, bool) {
	a, ok := l.answers[qid]
	return a, ok
}

// CanRetry reports whether another submission for qid is allowed: always on
// the first attempt, never at MaxAttempts, and otherwise only when the
// current answer carries non-blank reasoning.
func (l *Ledger) CanRetry(qid string) bool {
	n := l.attempts[qid]
	if n == 0 {
		return true
	}
	if n >= MaxAttempts {
		return false
	}
	return HasReasoning(l.answers[qid].Reasoning)
}

// Submit records an answer for qid, replacing any previous answer and
// incrementing the attempt count. It fails with *RetryExhaustedError when an
// answer exists and CanRetry is false; the ledger is then unchanged.
func (l *Ledger) Submit(qid, value, reasoning string) error {
	if qid == "" {
		return &ValidationError{Field: "question", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: "answer", Reason: "cannot be empty"}
	}
	if l.IsAnswered(qid) && !l.CanRetry(qid) {
		return &RetryExhaustedError{QuestionID: qid, Attempts: l.attempts[qid]}
	}

	l.attempts[qid]++
	l.answers[qid] = document.Answer{
		Value:     value,
		Reasoning: reasoning,
		Timestamp: l.now().UnixMilli(),
	}
	return nil
}

// Vote records this learner's vote on target's response to qid. A later vote
// for the same question and target replaces the earlier one.
func (l *Ledger) Vote(qid, target string, t VoteType) error {
	switch {
	case qid == "":
		return &ValidationError{Field: "question", Reason: "cannot be empty"}
	case strings.TrimSpace(target) == "":
		return &ValidationError{Field: "target", Reason: "cannot be empty"}
	case target == l.username:
		return &ValidationError{Field: "target", Reason: "cannot vote on your own response"}
	case !t.Valid():
		return &ValidationError{Field: "vote", Reason: "unknown type " + string(t)}
	}

	byTarget, ok := l.votes[qid]
	if !ok {
		byTarget = make(map[string]document.Vote)
		l.votes[qid] = byTarget
	}
	byTarget[target] = document.Vote{Type: string(t), Timestamp: l.now().UnixMilli()}
	return nil
}

// VoteOn returns the vote this learner cast on target's response to qid.
func (l *Ledger) VoteOn(qid, target string) (VoteType, bool) {
	v, ok := l.votes[qid][target]
	if !ok {
		return "", false
	}
	return VoteType(v.Type), true
}

// AnsweredIDs returns the answered question IDs in sorted order.
func (l *Ledger) AnsweredIDs() []string {
	return slices.Sorted(maps.Keys(l.answers))
}

// AnsweredSet returns the answered question IDs as a set.
func (l *Ledger) AnsweredSet() map[string]bool {
	set := make(map[string]bool, len(l.answers))
	for qid := range l.answers {
		set[qid] = true
	}
	return set
}

// AnswerCount returns the number of answered questions.
func (l *Ledger) AnswerCount() int { return len(l.answers) }

// CountAttemptsAtLeast counts questions with at least threshold attempts.
func (l *Ledger) CountAttemptsAtLeast(threshold int) int {
	n := 0
	for _, a := range l.attempts {
		if a >= threshold {
			n++
		}
	}
	return n
}

// CountReasoned counts answers that carry non-blank reasoning.
func (l *Ledger) CountReasoned() int {
	n := 0
	for _, a := range l.answers {
		if HasReasoning(a.Reasoning) {
			n++
		}
	}
	return n
}

// PersonalData exports the ledger in the document's personalData shape.
func (l *Ledger) PersonalData() document.PersonalData {
	pd := document.PersonalData{Answers: maps.Clone(l.answers)}
	if pd.Answers == nil {
		pd.Answers = make(map[string]document.Answer)
	}
	if len(l.attempts) > 0 {
		pd.Attempts = maps.Clone(l.attempts)
	}
	if len(l.votes) > 0 {
		pd.Votes = l.cloneVotes()
	}
	return pd
}

// Record exports the ledger in the class export shape.
func (l *Ledger) Record() document.LearnerRecord {
	pd := l.PersonalData()
	return document.LearnerRecord{
		Answers:  pd.Answers,
		Attempts: pd.Attempts,
		Votes:    pd.Votes,
	}
}

func (l *Ledger) cloneVotes() map[string]map[string]document.Vote {
	out := make(map[string]map[string]document.Vote, len(l.votes))
	for qid, byTarget := range l.votes {
		out[qid] = maps.Clone(byTarget)
	}
	return out
}

func (l *Ledger) now() time.Time {
	if l.Clock != nil {
		return l.Clock()
	}
	return time.Now()
}

// HasReasoning reports whether reasoning is non-empty after trimming.
func HasReasoning(reasoning string) bool {
	return strings.TrimSpace(reasoning) != ""
}
