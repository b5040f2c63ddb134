package peer

import (
	"slices"
	"strings"

	"github.com/peerstat/peerstat/internal/document"
	"github.com/peerstat/peerstat/internal/ledger"
)

// Aggregator answers class-wide questions over the current learner's ledger
// and the imported peer snapshot.
type Aggregator struct {
	current *ledger.Ledger
	peers   Snapshot
}

// NewAggregator combines the current ledger (may be nil) with peers. The
// aggregator takes ownership of peers and drops any entry for the current
// learner.
func NewAggregator(current *ledger.Ledger, peers Snapshot) *Aggregator {
	if peers == nil {
		peers = make(Snapshot)
	}
	if current != nil {
		delete(peers, current.Username())
	}
	return &Aggregator{current: current, peers: peers}
}

// Merge replaces the peer snapshot with the one decoded from raw. On a shape
// mismatch the existing snapshot is kept and a *ShapeError returned.
func (a *Aggregator) Merge(raw []byte) error {
	exclude := ""
	if a.current != nil {
		exclude = a.current.Username()
	}
	snap, err := ParseSnapshot(raw, exclude)
	if err != nil {
		return err
	}
	a.peers = snap
	return nil
}

// Peers returns the imported snapshot, excluding the current learner.
func (a *Aggregator) Peers() Snapshot { return a.peers }

// HasPeers reports whether a snapshot with at least one peer is loaded.
func (a *Aggregator) HasPeers() bool { return len(a.peers) > 0 }

// Learner returns the ledger for username, current learner included.
func (a *Aggregator) Learner(username string) *ledger.Ledger {
	if a.current != nil && a.current.Username() == username {
		return a.current
	}
	return a.peers[username]
}

// Learners returns every ledger in the class, ordered by username.
func (a *Aggregator) Learners() []*ledger.Ledger {
	out := make([]*ledger.Ledger, 0, len(a.peers)+1)
	for _, l := range a.peers {
		out = append(out, l)
	}
	if a.current != nil {
		out = append(out, a.current)
	}
	slices.SortFunc(out, func(x, y *ledger.Ledger) int {
		return strings.Compare(x.Username(), y.Username())
	})
	return out
}

// Distribution tallies the class's answers to qid over choices.
func (a *Aggregator) Distribution(qid string, choices []string) Distribution {
	return Compute(qid, choices, a.Learners())
}

// VotesOn counts learners whose active vote on target's response to qid is t.
func (a *Aggregator) VotesOn(qid, target string, t ledger.VoteType) int {
	count := 0
	for _, l := range a.Learners() {
		if v, ok := l.VoteOn(qid, target); ok && v == t {
			count++
		}
	}
	return count
}

// Response is one learner's answer as shown in a peer review listing.
type Response struct {
	Username  string
	Value     string
	Reasoning string
	IsCurrent bool
}

// Responses lists every learner's answer to qid, ordered by username.
func (a *Aggregator) Responses(qid string) []Response {
	var out []Response
	for _, l := range a.Learners() {
		ans, ok := l.Answer(qid)
		if !ok {
			continue
		}
		out = append(out, Response{
			Username:  l.Username(),
			Value:     ans.Value,
			Reasoning: ans.Reasoning,
			IsCurrent: a.current != nil && l == a.current,
		})
	}
	return out
}

// ClassExport renders the whole class, current learner included, in the
// shape accepted by Merge.
func (a *Aggregator) ClassExport() *document.PeerData {
	pd := a.peers.PeerData()
	if a.current != nil {
		pd.Users[a.current.Username()] = a.current.Record()
	}
	return pd
}
