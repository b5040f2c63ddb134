// Package engine is the progress and peer-consensus engine: it owns the
// loaded document, the current learner's ledger and the imported class
// snapshot, and exposes every operation the presentation layer needs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/peerstat/peerstat/internal/badges"
	"github.com/peerstat/peerstat/internal/curriculum"
	"github.com/peerstat/peerstat/internal/document"
	"github.com/peerstat/peerstat/internal/ledger"
	"github.com/peerstat/peerstat/internal/metrics"
	"github.com/peerstat/peerstat/internal/peer"
)

// Status is emitted after every successful state change.
type Status struct {
	IsDirty  bool
	Username string
}

// Options configures an Engine. All fields are optional.
type Options struct {
	Questions []curriculum.Question
	Units     []curriculum.UnitMeta
	Logger    *zap.Logger
	Metrics   *metrics.Recorder
	OnStatus  func(Status)
	Clock     func() time.Time
}

// Engine holds one loaded progress document. Operations are synchronous and
// serialized; a load or import replaces state in a single assignment so a
// half-built document is never observable. Several engines may coexist.
type Engine struct {
	mu       sync.Mutex
	log      *zap.Logger
	metrics  *metrics.Recorder
	onStatus func(Status)
	clock    func() time.Time

	curriculum curriculum.Organized

	sess  *session
	dirty bool
}

// session is the state scoped to one loaded document.
type session struct {
	meta          document.Metadata
	current       *ledger.Ledger
	agg           *peer.Aggregator
	peersImported bool
}

// New creates an engine with no document loaded.
func New(opts Options) *Engine {
	e := &Engine{
		log:      opts.Logger,
		metrics:  opts.Metrics,
		onStatus: opts.OnStatus,
		clock:    opts.Clock,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	e.curriculum = curriculum.Build(opts.Questions, opts.Units)
	e.log.Debug("curriculum organized",
		zap.Int("units", len(e.curriculum)),
		zap.Int("questions", e.curriculum.TotalQuestions()))
	return e
}

// Curriculum returns the organized catalogue.
func (e *Engine) Curriculum() curriculum.Organized {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.curriculum
}

// OrganizedCurriculum builds the unit/lesson view of a catalogue.
func OrganizedCurriculum(questions []curriculum.Question, units []curriculum.UnitMeta) curriculum.Organized {
	return curriculum.Build(questions, units)
}

// Normalize upgrades a raw document of either generation to v2.
func Normalize(raw []byte) (*document.Document, error) {
	doc, _, err := document.Normalize(raw)
	return doc, err
}

// CreateLedger starts a fresh document for username, discarding any loaded
// one. A blank username is a *ValidationError and changes nothing.
func (e *Engine) CreateLedger(username string) (*document.Document, error) {
	l, err := ledger.New(username)
	if err != nil {
		return nil, err
	}
	l.Clock = e.clock
	doc := document.New(username, e.clock())

	e.mu.Lock()
	e.sess = &session{
		meta:    doc.Metadata,
		current: l,
		agg:     peer.NewAggregator(l, nil),
	}
	e.dirty = true
	status := e.statusLocked()
	e.mu.Unlock()

	e.log.Info("created progress document", zap.String("username", username))
	e.emit(status)
	return doc, nil
}

// Load reads and installs a document from r. The read runs in the background
// and the call returns ctx.Err() if ctx ends first, leaving the current state
// untouched; there is no timeout or retry of its own.
func (e *Engine) Load(ctx context.Context, r io.Reader) (*document.Document, error) {
	type result struct {
		raw []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := io.ReadAll(r)
		done <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		e.log.Info("document load abandoned", zap.Error(ctx.Err()))
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("read document: %w", res.err)
		}
		return e.LoadBytes(res.raw)
	}
}

// LoadBytes normalizes raw and installs it as the loaded document. On a
// *FormatError the previous state is kept.
func (e *Engine) LoadBytes(raw []byte) (*document.Document, error) {
	doc, gen, err := document.NormalizeAt(raw, e.clock())
	if err != nil {
		e.log.Warn("document rejected", zap.Error(err))
		return nil, err
	}

	username := doc.Metadata.Username
	current := ledger.FromPersonal(username, doc.PersonalData)
	current.Clock = e.clock
	sess := &session{
		meta:          doc.Metadata,
		current:       current,
		agg:           peer.NewAggregator(current, peer.FromPeerData(doc.PeerData, username)),
		peersImported: doc.PeerData != nil,
	}

	e.mu.Lock()
	e.sess = sess
	e.dirty = false
	status := e.statusLocked()
	e.mu.Unlock()

	e.metrics.DocumentLoad(string(gen))
	e.log.Info("document loaded",
		zap.String("username", username),
		zap.String("generation", string(gen)),
		zap.Int("answers", current.AnswerCount()),
		zap.Int("peers", len(sess.agg.Peers())))
	e.emit(status)
	return doc, nil
}

// Close discards the loaded document.
func (e *Engine) Close() {
	e.mu.Lock()
	e.sess = nil
	e.dirty = false
	e.mu.Unlock()
}

// SubmitAnswer records the current learner's answer to qid.
func (e *Engine) SubmitAnswer(qid, value, reasoning string) error {
	e.mu.Lock()
	if e.sess == nil {
		e.mu.Unlock()
		e.metrics.Submission(metrics.OutcomeError)
		return ErrNoLedger
	}
	err := e.sess.current.Submit(qid, value, reasoning)
	if err != nil {
		e.mu.Unlock()
		e.recordSubmitFailure(qid, err)
		return err
	}
	attempts := e.sess.current.Attempts(qid)
	e.dirty = true
	status := e.statusLocked()
	e.mu.Unlock()

	e.metrics.Submission(metrics.OutcomeOK)
	e.log.Debug("answer submitted", zap.String("question", qid), zap.Int("attempts", attempts))
	e.emit(status)
	return nil
}

func (e *Engine) recordSubmitFailure(qid string, err error) {
	var re *RetryExhaustedError
	if errors.As(err, &re) {
		e.metrics.Submission(metrics.OutcomeRejected)
	} else {
		e.metrics.Submission(metrics.OutcomeInvalid)
	}
	e.log.Warn("answer rejected", zap.String("question", qid), zap.Error(err))
}

// Vote records the current learner's vote on target's response to qid.
func (e *Engine) Vote(qid, target string, t ledger.VoteType) error {
	e.mu.Lock()
	if e.sess == nil {
		e.mu.Unlock()
		return ErrNoLedger
	}
	if err := e.sess.current.Vote(qid, target, t); err != nil {
		e.mu.Unlock()
		e.log.Warn("vote rejected", zap.String("question", qid), zap.Error(err))
		return err
	}
	e.dirty = true
	status := e.statusLocked()
	e.mu.Unlock()

	e.metrics.Vote(string(t))
	e.emit(status)
	return nil
}

// ImportPeerData replaces the class snapshot with the export in raw. It
// returns false, keeping the previous snapshot, when no document is loaded
// or raw lacks a users mapping.
func (e *Engine) ImportPeerData(raw []byte) bool {
	e.mu.Lock()
	if e.sess == nil {
		e.mu.Unlock()
		e.metrics.PeerImport(metrics.OutcomeError)
		e.log.Warn("peer import without a loaded document")
		return false
	}
	if err := e.sess.agg.Merge(raw); err != nil {
		e.mu.Unlock()
		e.metrics.PeerImport(metrics.OutcomeInvalid)
		e.log.Warn("peer import rejected", zap.Error(err))
		return false
	}
	e.sess.peersImported = true
	peers := len(e.sess.agg.Peers())
	e.dirty = true
	status := e.statusLocked()
	e.mu.Unlock()

	e.metrics.PeerImport(metrics.OutcomeOK)
	e.log.Info("peer data imported", zap.Int("peers", peers))
	e.emit(status)
	return true
}

// Document returns the loaded document in its canonical form.
func (e *Engine) Document() (*document.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return nil, ErrNoLedger
	}
	return e.documentLocked(), nil
}

func (e *Engine) documentLocked() *document.Document {
	doc := &document.Document{
		Version:      document.CurrentVersion,
		Metadata:     e.sess.meta,
		PersonalData: e.sess.current.PersonalData(),
	}
	if e.sess.peersImported {
		doc.PeerData = e.sess.agg.Peers().PeerData()
	}
	return doc
}

// Export writes the document as JSON and marks it saved.
func (e *Engine) Export(w io.Writer) error {
	e.mu.Lock()
	if e.sess == nil {
		e.mu.Unlock()
		return ErrNoLedger
	}
	b, err := e.documentLocked().Marshal()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	e.mu.Lock()
	e.dirty = false
	status := e.statusLocked()
	e.mu.Unlock()
	e.emit(status)
	return nil
}

// ClassExport renders the whole class, current learner included, in the
// shape ImportPeerData accepts.
func (e *Engine) ClassExport() (*document.PeerData, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return nil, ErrNoLedger
	}
	return e.sess.agg.ClassExport(), nil
}

// Status reports the dirty flag and current username.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusLocked()
}

func (e *Engine) statusLocked() Status {
	s := Status{IsDirty: e.dirty}
	if e.sess != nil {
		s.Username = e.sess.meta.Username
	}
	return s
}

func (e *Engine) emit(s Status) {
	if e.onStatus != nil {
		e.onStatus(s)
	}
}

// QuestionState is the current learner's standing on one question.
type QuestionState struct {
	Answered bool
	Attempts int
	CanRetry bool
	Answer   document.Answer
}

// Question reports the current learner's state for qid.
func (e *Engine) Question(qid string) (QuestionState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return QuestionState{}, ErrNoLedger
	}
	l := e.sess.current
	ans, answered := l.Answer(qid)
	return QuestionState{
		Answered: answered,
		Attempts: l.Attempts(qid),
		CanRetry: l.CanRetry(qid),
		Answer:   ans,
	}, nil
}

// UnitProgress reports the current learner's progress through a unit. With
// no document loaded nothing counts as answered. ok is false for an unknown
// unit.
func (e *Engine) UnitProgress(unit string) (p curriculum.Progress, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, ok := e.curriculum[unit]
	if !ok {
		return curriculum.Progress{}, false
	}
	var answered map[string]bool
	if e.sess != nil {
		answered = e.sess.current.AnsweredSet()
	}
	return u.Progress(answered), true
}

// LessonCompleted reports whether the current learner answered every
// question of a lesson.
func (e *Engine) LessonCompleted(unit, lesson string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, ok := e.curriculum[unit]
	if !ok || e.sess == nil {
		return false
	}
	return u.LessonCompleted(lesson, e.sess.current.AnsweredSet())
}

// AnswerDistribution tallies the class's answers to qid over the question's
// catalogue choices.
func (e *Engine) AnswerDistribution(qid string) (peer.Distribution, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return peer.Distribution{}, ErrNoLedger
	}
	var choices []string
	if q, ok := e.curriculum.Question(qid); ok {
		choices = q.ChoiceKeys()
	}
	return e.sess.agg.Distribution(qid, choices), nil
}

// Responses lists every learner's answer to qid.
func (e *Engine) Responses(qid string) ([]peer.Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return nil, ErrNoLedger
	}
	return e.sess.agg.Responses(qid), nil
}

// VoteCount counts class votes of type t on target's response to qid.
func (e *Engine) VoteCount(qid, target string, t ledger.VoteType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return 0
	}
	return e.sess.agg.VotesOn(qid, target, t)
}

// BadgesFor classifies username against the class.
func (e *Engine) BadgesFor(username string) []badges.Badge {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return nil
	}
	return badges.Classify(username, e.sess.agg, e.curriculum.TotalQuestions())
}

// Learners returns every username in the class, current learner included.
func (e *Engine) Learners() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return nil
	}
	var names []string
	for _, l := range e.sess.agg.Learners() {
		names = append(names, l.Username())
	}
	return names
}
