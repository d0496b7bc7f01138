package slack

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/stats"
	"github.com/slack-go/slack"
)

var medals = [...]string{"🥇", "🥈", "🥉"}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("mrkdwn", text, false, false)
}

func playedAt(t time.Time) string {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		return t.Format("Monday 02 Jan, 15:04")
	}
	return t.In(loc).Format("Monday 02 Jan, 15:04")
}

func teams(r notifier.MatchResult) (string, string) {
	return strings.Join(r.Team1[:], " & "), strings.Join(r.Team2[:], " & ")
}

func scoreLine(r notifier.MatchResult) string {
	t1, t2 := teams(r)
	return fmt.Sprintf("%s %d - %d %s", t1, r.Team1Score, r.Team2Score, t2)
}

func winners(r notifier.MatchResult) string {
	t1, t2 := teams(r)
	if r.WinnerTeam == 2 {
		return t2
	}
	return t1
}

// formatMatchSubmitted announces a pending match and who still has to confirm it.
func formatMatchSubmitted(r notifier.MatchResult) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain("🃏 New match submitted")),
		slack.NewSectionBlock(plain(scoreLine(r)), nil, nil),
	}
	details := playedAt(r.PlayedAt)
	if r.SeasonName != "" {
		details = r.SeasonName + " · " + details
	}
	blocks = append(blocks, slack.NewContextBlock("", plain(details)))
	if len(r.Pending) > 0 {
		text := "Waiting for confirmation from: " + strings.Join(r.Pending, ", ")
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(text), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatMatchValidated announces a result that now counts towards the standings.
func formatMatchValidated(r notifier.MatchResult) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain("🃏 Match validated!")),
		slack.NewSectionBlock(plain(fmt.Sprintf("%s won! 🏆", winners(r))), []*slack.TextBlockObject{plain(scoreLine(r))}, nil),
	}
	details := playedAt(r.PlayedAt)
	if r.SeasonName != "" {
		details = r.SeasonName + " · " + details
	}
	if r.AutoValidated {
		details += " · validated automatically"
	}
	blocks = append(blocks, slack.NewContextBlock("", plain(details)))
	return slack.NewBlockMessage(blocks...)
}

func standingLine(rank int, s stats.PlayerStats) string {
	medal := ""
	if rank <= len(medals) {
		medal = medals[rank-1] + " "
	}
	line := fmt.Sprintf("%d. %s%s\n> Win %%: %.1f%% (%d/%d) | Losses: %d",
		rank, medal, s.Name, s.WinRate, s.Wins, s.TotalMatches, s.Losses)
	if !s.Qualified() {
		line += " | provisional"
	}
	return line
}

// formatLeaderboard creates a Slack message to display a ranked leaderboard.
func formatLeaderboard(title string, ranked []stats.PlayerStats) slack.Message {
	blocks := []slack.Block{slack.NewHeaderBlock(plain("🏆 " + title + " 🏆"))}

	played := stats.Played(ranked)
	if len(played) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(plain("No validated matches yet. Go play some Mus!"), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}
	for i, s := range played {
		blocks = append(blocks, slack.NewSectionBlock(plain(standingLine(i+1, s)), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatSeasonSummary posts the final standings of a season.
func formatSeasonSummary(summary stats.SeasonSummary) slack.Message {
	header := fmt.Sprintf("🏁 %s is over! 🏁", summary.Season.Name)
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(header)),
		slack.NewContextBlock("", plain(fmt.Sprintf("%d validated matches", summary.TotalMatches))),
	}
	if len(summary.TopPlayers) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(plain("Nobody played this season."), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}
	for i, s := range summary.TopPlayers {
		blocks = append(blocks, slack.NewSectionBlock(plain(standingLine(i+1, s)), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func formatPlayerStats(card notifier.PlayerCard) slack.Message {
	s := card.Stats
	header := fmt.Sprintf("🃏 Stats for %s", s.Name)
	text := fmt.Sprintf("> *Win %%*: %.1f%% (%d/%d)\n> *Losses*: %d\n> *Trend*: %s",
		s.WinRate, s.Wins, s.TotalMatches, s.Losses, s.Trend())
	if card.Rank > 0 {
		text = fmt.Sprintf("> *Rank*: %d of %d\n", card.Rank, card.Ranked) + text
	}
	if !s.Qualified() {
		text += fmt.Sprintf("\n_Provisional until %d matches are played._", stats.QualificationThreshold)
	}
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(plain(header)),
		slack.NewSectionBlock(mrkdwn(text), nil, nil),
	)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(mrkdwn(text), nil, nil),
	)
}
