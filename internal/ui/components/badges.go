package components

import (
	"strings"

	"github.com/peerstat/peerstat/internal/badges"
	"github.com/peerstat/peerstat/internal/ui/theme"
)

// BadgeList renders badges as inline chips. An empty list renders a hint.
func BadgeList(bs []badges.Badge) string {
	if len(bs) == 0 {
		return theme.Hint.Render("No badges yet")
	}
	chips := make([]string, 0, len(bs))
	for _, b := range bs {
		chips = append(chips, theme.Badge.Render(b.Label()))
	}
	return strings.Join(chips, " ")
}
