package ledger

// VoteType is a peer's judgement of another learner's free response.
type VoteType string

const (
	VoteHelpful     VoteType = "helpful"
	VoteUnclear     VoteType = "unclear"
	VoteContradicts VoteType = "contradicts"
)

// AllVoteTypes returns the vote types in display order.
func AllVoteTypes() []VoteType {
	return []VoteType{VoteHelpful, VoteUnclear, VoteContradicts}
}

// Valid reports whether t is a known vote type.
func (t VoteType) Valid() bool {
	switch t {
	case VoteHelpful, VoteUnclear, VoteContradicts:
		return true
	default:
		return false
	}
}

// Icon returns the display icon for the vote type.
func (t VoteType) Icon() string {
	switch t {
	case VoteHelpful:
		return "💡"
	case VoteUnclear:
		return "🤔"
	case VoteContradicts:
		return "⚔️"
	default:
		return "?"
	}
}
