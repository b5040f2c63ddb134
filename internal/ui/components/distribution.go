package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/peerstat/peerstat/internal/peer"
	"github.com/peerstat/peerstat/internal/ui/theme"
)

// DistributionView renders one bar per choice, the class mode drawn in its
// consensus band colour, followed by the verdict line.
type DistributionView struct {
	Dist  peer.Distribution
	Width int
}

// View renders the distribution.
func (d DistributionView) View() string {
	var b strings.Builder
	band := theme.BandStyle(d.Dist.Band())

	for _, key := range d.Dist.Keys {
		bar := NewProgressBar(key, d.Dist.RelativeFrequencies[key], d.Width)
		bar.Suffix = fmt.Sprintf("%d (%d%%)", d.Dist.Counts[key], pct(d.Dist.RelativeFrequencies[key]))
		if key == d.Dist.Mode && d.Dist.Respondents > 0 {
			bar.Fill = lipgloss.NewStyle().Background(theme.BandColor(d.Dist.Band()))
		}
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	msg := d.Dist.Message()
	if d.Dist.Respondents > 1 {
		msg = band.Render(msg)
	} else {
		msg = theme.Hint.Render(msg)
	}
	b.WriteString(msg)
	return b.String()
}

func pct(f float64) int {
	return int(f*100 + 0.5)
}
