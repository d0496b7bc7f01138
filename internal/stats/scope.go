package stats

import "strings"

// Selector picks which matches feed the aggregator: "all", "current" or a season id.
type Selector string

const (
	SelectorAll     Selector = "all"
	SelectorCurrent Selector = "current"
)

// ParseSelector normalizes user input. Empty input means all seasons.
func ParseSelector(raw string) Selector {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", string(SelectorAll):
		return SelectorAll
	case string(SelectorCurrent):
		return SelectorCurrent
	}
	return Selector(raw)
}

// ActiveSeason returns the active season, if any.
func ActiveSeason(seasons []Season) (Season, bool) {
	for _, s := range seasons {
		if s.IsActive {
			return s, true
		}
	}
	return Season{}, false
}

// Resolve turns a selector into the season id it filters on. filtered is false
// when every match applies, which includes "current" without an active season.
func Resolve(sel Selector, seasons []Season) (seasonID string, filtered bool) {
	switch sel {
	case SelectorAll:
		return "", false
	case SelectorCurrent:
		active, ok := ActiveSeason(seasons)
		if !ok {
			return "", false
		}
		return active.ID, true
	default:
		return string(sel), true
	}
}

// Scope filters matches according to sel.
func Scope(sel Selector, matches []Match, seasons []Season) []Match {
	seasonID, filtered := Resolve(sel, seasons)
	if !filtered {
		return matches
	}
	return InSeason(matches, seasonID)
}

// InSeason keeps the matches recorded under seasonID.
func InSeason(matches []Match, seasonID string) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.SeasonID == seasonID {
			out = append(out, m)
		}
	}
	return out
}

// OnlyValidated keeps matches that count towards statistics.
func OnlyValidated(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Status == StatusValidated {
			out = append(out, m)
		}
	}
	return out
}
