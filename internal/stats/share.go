package stats

import (
	"fmt"
	"strings"
)

var medals = [...]string{"🥇", "🥈", "🥉"}

// ShareText renders a ranked list as plain text suitable for a chat message.
// Players without matches are omitted.
func ShareText(title string, ranked []PlayerStats) string {
	var b strings.Builder
	b.WriteString("🃏 ")
	b.WriteString(title)
	b.WriteString("\n\n")

	played := Played(ranked)
	if len(played) == 0 {
		b.WriteString("No validated matches yet.")
		return b.String()
	}
	provisional := false
	for i, s := range played {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		fmt.Fprintf(&b, "%s %s: %d/%d (%.0f%%)", prefix, s.Name, s.Wins, s.TotalMatches, s.WinRate)
		if !s.Qualified() {
			provisional = true
			b.WriteString(" *")
		}
		b.WriteString("\n")
	}
	if provisional {
		fmt.Fprintf(&b, "\n* fewer than %d matches", QualificationThreshold)
	}
	return strings.TrimRight(b.String(), "\n")
}
