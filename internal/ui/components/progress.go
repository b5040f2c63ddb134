package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/peerstat/peerstat/internal/curriculum"
	"github.com/peerstat/peerstat/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label    string
	Fraction float64
	Suffix   string
	Fill     lipgloss.Style
	Width    int
}

// NewProgressBar creates a progress bar filled to fraction (0..1).
func NewProgressBar(label string, fraction float64, width int) ProgressBar {
	return ProgressBar{
		Label:    label,
		Fraction: fraction,
		Suffix:   fmt.Sprintf("%d%%", int(fraction*100)),
		Fill:     theme.ProgressFilled,
		Width:    width,
	}
}

// UnitProgressBar renders a unit's completion as "<name>  [bar]  3/4 75%".
func UnitProgressBar(name string, p curriculum.Progress, width int) ProgressBar {
	bar := NewProgressBar(name, float64(p.Percent)/100, width)
	bar.Suffix = fmt.Sprintf("%d/%d %d%%", p.Completed, p.Total, p.Percent)
	return bar
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	suffixWidth := 0
	if p.Suffix != "" {
		suffixWidth = len(p.Suffix) + 2
	}

	barWidth := p.Width - labelWidth - suffixWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	result += p.Fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.Suffix != "" {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  " + p.Suffix)
	}

	return result
}
