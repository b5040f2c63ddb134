package badges

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerstat/peerstat/internal/ledger"
	"github.com/peerstat/peerstat/internal/peer"
)

func qid(i int) string { return fmt.Sprintf("U1-L1-Q%d", i) }

func newLedger(t *testing.T, name string) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New(name)
	require.NoError(t, err)
	return l
}

func TestClassify_OutlierExample(t *testing.T) {
	me := newLedger(t, "me")
	p1 := newLedger(t, "p1")
	p2 := newLedger(t, "p2")
	for i := 1; i <= 10; i++ {
		require.NoError(t, me.Submit(qid(i), "A", ""))
		peerAnswer := "A"
		if i <= 6 {
			peerAnswer = "B"
		}
		require.NoError(t, p1.Submit(qid(i), peerAnswer, ""))
		require.NoError(t, p2.Submit(qid(i), peerAnswer, ""))
	}
	view := peer.NewAggregator(me, peer.Snapshot{"p1": p1, "p2": p2})

	stats := Collect(me, view)
	assert.Equal(t, 6, stats.Outliers)
	assert.Equal(t, 4, stats.ModeMatches)

	got := Classify("me", view, 50)
	assert.Contains(t, got, Outlier)
	assert.NotContains(t, got, Conformist)
}

func TestClassify_NoAnswersNoBadges(t *testing.T) {
	view := peer.NewAggregator(newLedger(t, "me"), nil)
	assert.Empty(t, Classify("me", view, 0))
	assert.Empty(t, Classify("me", view, 10))
	assert.Empty(t, Classify("stranger", view, 10))
}

func TestClassify_SoloLearnerIsConformistCompletionist(t *testing.T) {
	me := newLedger(t, "me")
	for i := 1; i <= 4; i++ {
		require.NoError(t, me.Submit(qid(i), "C", "reasoned answer"))
	}
	got := Classify("me", peer.NewAggregator(me, nil), 4)
	assert.Equal(t, []Badge{Conformist, Debater, Completionist}, got)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		total int
		want  []Badge
	}{
		{"empty", Stats{}, 10, nil},
		{
			"outlier boundary not exceeded",
			Stats{Answered: 10, Outliers: 5, ModeMatches: 5, Reasoned: 5},
			0, nil,
		},
		{
			"conformist needs more than 80 percent",
			Stats{Answered: 10, ModeMatches: 8, Outliers: 2, Reasoned: 5},
			0, nil,
		},
		{
			"conformist",
			Stats{Answered: 10, ModeMatches: 9, Outliers: 1, Reasoned: 5},
			0, []Badge{Conformist},
		},
		{
			"explorer",
			Stats{Answered: 10, ModeMatches: 5, Outliers: 5, MultiAttempts: 4, Reasoned: 5},
			0, []Badge{Explorer},
		},
		{
			"explorer boundary",
			Stats{Answered: 10, ModeMatches: 5, Outliers: 5, MultiAttempts: 3, Reasoned: 5},
			0, nil,
		},
		{
			"silent type",
			Stats{Answered: 10, ModeMatches: 5, Outliers: 5, Reasoned: 1},
			0, []Badge{SilentType},
		},
		{
			"silent boundary is neither",
			Stats{Answered: 10, ModeMatches: 5, Outliers: 5, Reasoned: 2},
			0, nil,
		},
		{
			"debater",
			Stats{Answered: 10, ModeMatches: 5, Outliers: 5, Reasoned: 9},
			0, []Badge{Debater},
		},
		{
			"completionist",
			Stats{Answered: 3, ModeMatches: 3, Reasoned: 3},
			3, []Badge{Conformist, Debater, Completionist},
		},
		{
			"zero total is never completionist",
			Stats{Answered: 3, ModeMatches: 3, Reasoned: 3},
			0, []Badge{Conformist, Debater},
		},
		{
			"several at once",
			Stats{Answered: 10, Outliers: 6, ModeMatches: 4, MultiAttempts: 5},
			10, []Badge{Outlier, Explorer, SilentType, Completionist},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.stats, tt.total))
		})
	}
}

func TestBadgeLabel(t *testing.T) {
	assert.Equal(t, "🤐 Silent Type", SilentType.Label())
	for _, b := range AllBadges() {
		assert.NotEqual(t, "✦", b.Icon(), "badge %s has no icon", b)
	}
}
