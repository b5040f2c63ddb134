package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/peerstat/peerstat/internal/peer"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	// Consensus bands
	Consensus = lipgloss.Color("#4CAF50") // Green
	Tentative = lipgloss.Color("#ff9800") // Amber
	Split     = lipgloss.Color("#f44336") // Red
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	Badge = lipgloss.NewStyle().
		Background(BgCard).
		Foreground(Text).
		Bold(true).
		Padding(0, 1)

	Current = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
)

// BandColor returns the colour of a consensus band.
func BandColor(b peer.Band) color.Color {
	switch b {
	case peer.BandConsensus:
		return Consensus
	case peer.BandTentative:
		return Tentative
	default:
		return Split
	}
}

// BandStyle returns the text style for a consensus band.
func BandStyle(b peer.Band) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(BandColor(b)).Bold(true)
}
