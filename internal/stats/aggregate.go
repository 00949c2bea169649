// Package stats computes recent-match aggregate statistics. Everything here
// is pure: same input, same output, no I/O.
package stats

import (
	"math"
	"strconv"

	"nexus-companion/internal/domain"
)

// PerfectKDA is reported instead of a ratio when the death total is zero.
const PerfectKDA = "Perfect"

// ChampionStat is one row of the most-played breakdown.
type ChampionStat struct {
	Name        string `json:"name"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	WinRate     int    `json:"winRate"`
	KDA         string `json:"kda"`
}

// Summary is the aggregate over one player's recent matches.
type Summary struct {
	TotalGames    int            `json:"totalGames"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	WinRate       int            `json:"winRate"`
	AvgKills      string         `json:"avgKills"`
	AvgDeaths     string         `json:"avgDeaths"`
	AvgAssists    string         `json:"avgAssists"`
	KDA           string         `json:"kda"`
	MostChampions []ChampionStat `json:"mostChampions"`
}

// Aggregate reduces a match list into a Summary. Returns false for an empty
// input: callers must branch on that instead of rendering a zero-filled
// record. Negative counters are clamped to zero.
func Aggregate(matches []domain.MatchSummary) (*Summary, bool) {
	total := len(matches)
	if total == 0 {
		return nil, false
	}

	var wins, kills, deaths, assists int
	groups := map[string]*championGroup{}
	order := make([]string, 0, total)

	for _, m := range matches {
		k := clamp(m.Kills)
		d := clamp(m.Deaths)
		a := clamp(m.Assists)

		kills += k
		deaths += d
		assists += a
		if m.Win {
			wins++
		}

		g, ok := groups[m.ChampionName]
		if !ok {
			g = &championGroup{name: m.ChampionName}
			groups[m.ChampionName] = g
			order = append(order, m.ChampionName)
		}
		g.games++
		g.kills += k
		g.deaths += d
		g.assists += a
		if m.Win {
			g.wins++
		}
	}

	summary := &Summary{
		TotalGames: total,
		Wins:       wins,
		Losses:     total - wins,
		WinRate:    roundPercent(wins, total),
		AvgKills:   formatAverage(kills, total),
		AvgDeaths:  formatAverage(deaths, total),
		AvgAssists: formatAverage(assists, total),
		KDA:        formatKDA(kills, deaths, assists),
	}

	// Stable sort by games played descending: ties keep first-seen order.
	ranked := make([]*championGroup, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, groups[name])
	}
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].games > ranked[j-1].games; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	if len(ranked) > MostChampionsCap {
		ranked = ranked[:MostChampionsCap]
	}
	for _, g := range ranked {
		summary.MostChampions = append(summary.MostChampions, ChampionStat{
			Name:        g.name,
			GamesPlayed: g.games,
			Wins:        g.wins,
			WinRate:     roundPercent(g.wins, g.games),
			KDA:         formatKDA(g.kills, g.deaths, g.assists),
		})
	}

	return summary, true
}

// MostChampionsCap bounds the most-played breakdown.
const MostChampionsCap = 3

// KillParticipation computes the share of team kills the player took part
// in, over the matches whose team kill totals are known. teamKills maps
// match ID to the player's team kill total, sourced from match detail data.
// Returns false when no usable data exists; the caller renders nothing
// rather than a placeholder.
func KillParticipation(matches []domain.MatchSummary, teamKills map[string]int) (int, bool) {
	var contributed, teamTotal int
	for _, m := range matches {
		tk, ok := teamKills[m.MatchID]
		if !ok || tk <= 0 {
			continue
		}
		contributed += clamp(m.Kills) + clamp(m.Assists)
		teamTotal += tk
	}
	if teamTotal == 0 {
		return 0, false
	}
	return roundPercent(contributed, teamTotal), true
}

type championGroup struct {
	name    string
	games   int
	wins    int
	kills   int
	deaths  int
	assists int
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// roundPercent rounds half up: 2 of 3 is 67, not 66.
func roundPercent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// formatAverage renders sum/count with one fraction digit, rounding half up.
func formatAverage(sum, count int) string {
	avg := math.Round(float64(sum)/float64(count)*10) / 10
	return strconv.FormatFloat(avg, 'f', 1, 64)
}

// formatKDA renders (kills+assists)/deaths with two fraction digits, or the
// Perfect sentinel when there are no deaths.
func formatKDA(kills, deaths, assists int) string {
	if deaths == 0 {
		return PerfectKDA
	}
	kda := math.Round(float64(kills+assists)/float64(deaths)*100) / 100
	return strconv.FormatFloat(kda, 'f', 2, 64)
}
