package badges

// Badge is a behavioral label derived from a learner's answering pattern.
type Badge string

const (
	Outlier       Badge = "Outlier"
	Conformist    Badge = "Conformist"
	Explorer      Badge = "Explorer"
	SilentType    Badge = "Silent Type"
	Debater       Badge = "Debater"
	Completionist Badge = "Completionist"
)

// AllBadges returns all badges in display order.
func AllBadges() []Badge {
	return []Badge{Outlier, Conformist, Explorer, SilentType, Debater, Completionist}
}

// Icon returns the display icon for the badge.
func (b Badge) Icon() string {
	switch b {
	case Outlier:
		return "🎯"
	case Conformist:
		return "👥"
	case Explorer:
		return "🔄"
	case SilentType:
		return "🤐"
	case Debater:
		return "💬"
	case Completionist:
		return "✅"
	default:
		return "✦"
	}
}

// Label returns the badge with its icon, as shown next to a username.
func (b Badge) Label() string {
	return b.Icon() + " " + string(b)
}
