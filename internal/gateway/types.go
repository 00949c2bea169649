package gateway

import (
	"time"

	"nexus-companion/internal/domain"
)

// Wire shapes for the backend's JSON payloads, converted to domain types at
// this boundary.

type userResponse struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	ProfileImage  string `json:"profileImage"`
	RiotID        string `json:"riotId"`
	Puuid         string `json:"puuid"`
	SummonerName  string `json:"summonerName"`
	TagLine       string `json:"tagLine"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int    `json:"summonerLevel"`
	Tier          string `json:"tier"`
	Rank          string `json:"rank"`
	LeaguePoints  int    `json:"leaguePoints"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Provider      string `json:"provider"`
	Role          string `json:"role"`
	CreatedAt     string `json:"createdAt"`
}

func (u *userResponse) toDomain() *domain.User {
	createdAt, _ := time.Parse(time.RFC3339, u.CreatedAt)
	return &domain.User{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		ProfileImage:  u.ProfileImage,
		RiotID:        u.RiotID,
		Puuid:         u.Puuid,
		SummonerName:  u.SummonerName,
		TagLine:       u.TagLine,
		ProfileIconID: u.ProfileIconID,
		SummonerLevel: u.SummonerLevel,
		Tier:          u.Tier,
		Rank:          u.Rank,
		LeaguePoints:  u.LeaguePoints,
		Wins:          u.Wins,
		Losses:        u.Losses,
		Provider:      u.Provider,
		Role:          u.Role,
		CreatedAt:     createdAt,
	}
}

type matchResponse struct {
	ID           int64   `json:"id"`
	MatchID      string  `json:"matchId"`
	ChampionName string  `json:"championName"`
	Kills        int     `json:"kills"`
	Deaths       int     `json:"deaths"`
	Assists      int     `json:"assists"`
	Kda          float64 `json:"kda"`
	Win          bool    `json:"win"`
	GameDuration int     `json:"gameDuration"`
	GameCreation int64   `json:"gameCreation"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	Item0        int     `json:"item0"`
	Item1        int     `json:"item1"`
	Item2        int     `json:"item2"`
	Item3        int     `json:"item3"`
	Item4        int     `json:"item4"`
	Item5        int     `json:"item5"`
	Item6        int     `json:"item6"`
}

func (m *matchResponse) toDomain() domain.MatchSummary {
	createdAt, _ := time.Parse(time.RFC3339, m.CreatedAt)
	return domain.MatchSummary{
		ID:           m.ID,
		MatchID:      m.MatchID,
		ChampionName: m.ChampionName,
		Kills:        m.Kills,
		Deaths:       m.Deaths,
		Assists:      m.Assists,
		Win:          m.Win,
		GameDuration: m.GameDuration,
		GameCreation: m.GameCreation,
		Status:       domain.MatchStatus(m.Status),
		Items:        [7]int{m.Item0, m.Item1, m.Item2, m.Item3, m.Item4, m.Item5, m.Item6},
		CreatedAt:    createdAt,
	}
}

type pagedResponse[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
	Size          int  `json:"size"`
	Number        int  `json:"number"`
}

type leagueInfoResponse struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	WinRate      string `json:"winRate"`
}

func (l *leagueInfoResponse) toDomain() *domain.LeagueInfo {
	if l == nil {
		return nil
	}
	return &domain.LeagueInfo{
		QueueType:    l.QueueType,
		Tier:         l.Tier,
		Rank:         l.Rank,
		LeaguePoints: l.LeaguePoints,
		Wins:         l.Wins,
		Losses:       l.Losses,
		WinRate:      l.WinRate,
	}
}

type summonerProfileResponse struct {
	GameName       string              `json:"gameName"`
	TagLine        string              `json:"tagLine"`
	SummonerLevel  int                 `json:"summonerLevel"`
	ProfileIconURL string              `json:"profileIconUrl"`
	SoloLeague     *leagueInfoResponse `json:"soloLeague"`
	FlexLeague     *leagueInfoResponse `json:"flexLeague"`
}

func (p *summonerProfileResponse) toDomain() *domain.SummonerProfile {
	return &domain.SummonerProfile{
		GameName:       p.GameName,
		TagLine:        p.TagLine,
		SummonerLevel:  p.SummonerLevel,
		ProfileIconURL: p.ProfileIconURL,
		SoloLeague:     p.SoloLeague.toDomain(),
		FlexLeague:     p.FlexLeague.toDomain(),
	}
}

type matchesWithProfileResponse struct {
	Profile summonerProfileResponse      `json:"profile"`
	Matches pagedResponse[matchResponse] `json:"matches"`
}

type playerDetailResponse struct {
	PlayerName   string `json:"playerName"`
	ChampionName string `json:"championName"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	TotalDamage  int    `json:"totalDamageDealt"`
	VisionScore  int    `json:"visionScore"`
	CS           int    `json:"cs"`
	GoldEarned   int    `json:"goldEarned"`
	FinalItems   []int  `json:"finalItems"`
	SkillBuild   []int  `json:"skillBuild"`
}

type teamDetailResponse struct {
	TeamID          int  `json:"teamId"`
	Win             bool `json:"win"`
	TotalObjectives int  `json:"totalObjectives"`
	TotalKills      int  `json:"totalKills"`
}

type matchDetailResponse struct {
	MatchID      string                 `json:"matchId"`
	GameDuration int                    `json:"gameDuration"`
	GameCreation int64                  `json:"gameCreation"`
	Players      []playerDetailResponse `json:"players"`
	Teams        []teamDetailResponse   `json:"teams"`
}

func (d *matchDetailResponse) toDomain() *domain.MatchDetail {
	detail := &domain.MatchDetail{
		MatchID:      d.MatchID,
		GameDuration: d.GameDuration,
		GameCreation: d.GameCreation,
	}
	for _, p := range d.Players {
		detail.Players = append(detail.Players, domain.PlayerDetail{
			PlayerName:   p.PlayerName,
			ChampionName: p.ChampionName,
			Kills:        p.Kills,
			Deaths:       p.Deaths,
			Assists:      p.Assists,
			TotalDamage:  p.TotalDamage,
			VisionScore:  p.VisionScore,
			CS:           p.CS,
			GoldEarned:   p.GoldEarned,
			FinalItems:   p.FinalItems,
			SkillBuild:   p.SkillBuild,
		})
	}
	for _, t := range d.Teams {
		detail.Teams = append(detail.Teams, domain.TeamDetail{
			TeamID:          t.TeamID,
			Win:             t.Win,
			TotalObjectives: t.TotalObjectives,
			TotalKills:      t.TotalKills,
		})
	}
	return detail
}

type highlightResponse struct {
	ID        int64  `json:"id"`
	MatchID   string `json:"matchId"`
	Puuid     string `json:"puuid"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	VideoURL  string `json:"videoUrl"`
	StartTime int    `json:"startTime"`
	EndTime   int    `json:"endTime"`
	ViewCount int    `json:"viewCount"`
	CreatedAt string `json:"createdAt"`
}

func (h *highlightResponse) toDomain() domain.Highlight {
	createdAt, _ := time.Parse(time.RFC3339, h.CreatedAt)
	return domain.Highlight{
		ID:        h.ID,
		MatchID:   h.MatchID,
		Puuid:     h.Puuid,
		Type:      domain.HighlightType(h.Type),
		Title:     h.Title,
		VideoURL:  h.VideoURL,
		StartTime: h.StartTime,
		EndTime:   h.EndTime,
		ViewCount: h.ViewCount,
		CreatedAt: createdAt,
	}
}

type analysisResponse struct {
	ID         int64    `json:"id"`
	MatchID    string   `json:"matchId"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	CreatedAt  string   `json:"createdAt"`
}

func (a *analysisResponse) toDomain() domain.Analysis {
	createdAt, _ := time.Parse(time.RFC3339, a.CreatedAt)
	return domain.Analysis{
		ID:         a.ID,
		MatchID:    a.MatchID,
		Summary:    a.Summary,
		Strengths:  a.Strengths,
		Weaknesses: a.Weaknesses,
		CreatedAt:  createdAt,
	}
}

type settingsResponse struct {
	AutoLaunch    bool `json:"autoLaunch"`
	AutoShowOnLol bool `json:"autoShowOnLol"`
}

func (s *settingsResponse) toDomain() domain.Settings {
	return domain.Settings{AutoLaunch: s.AutoLaunch, AutoShowOnLoL: s.AutoShowOnLol}
}

// Page is a backend page of match summaries plus paging cursors.
type Page struct {
	Matches       []domain.MatchSummary
	Number        int
	Size          int
	TotalPages    int
	TotalElements int
	Last          bool
}
