package domain

import (
	"time"
)

type User struct {
	ID            int64
	Email         string
	Name          string
	ProfileImage  string
	RiotID        string
	Puuid         string
	SummonerName  string
	TagLine       string
	ProfileIconID int
	SummonerLevel int
	Tier          string
	Rank          string
	LeaguePoints  int
	Wins          int
	Losses        int
	Provider      string // "GOOGLE"
	Role          string // "USER" or "ADMIN"
	CreatedAt     time.Time
}

type MatchStatus string

const (
	MatchPending   MatchStatus = "PENDING"
	MatchCompleted MatchStatus = "COMPLETED"
	MatchFailed    MatchStatus = "FAILED"
)

type MatchSummary struct {
	ID           int64
	MatchID      string
	ChampionName string
	Kills        int
	Deaths       int
	Assists      int
	Win          bool
	GameDuration int
	GameCreation int64
	Status       MatchStatus
	Items        [7]int
	CreatedAt    time.Time
}

type LeagueInfo struct {
	QueueType    string
	Tier         string
	Rank         string
	LeaguePoints int
	Wins         int
	Losses       int
	WinRate      string
}

type SummonerProfile struct {
	GameName       string
	TagLine        string
	SummonerLevel  int
	ProfileIconURL string
	SoloLeague     *LeagueInfo
	FlexLeague     *LeagueInfo
	LastFetchAt    time.Time
}

type PlayerDetail struct {
	PlayerName   string
	ChampionName string
	Kills        int
	Deaths       int
	Assists      int
	TotalDamage  int
	VisionScore  int
	CS           int
	GoldEarned   int
	FinalItems   []int
	SkillBuild   []int
}

type TeamDetail struct {
	TeamID          int
	Win             bool
	TotalObjectives int
	TotalKills      int
}

type MatchDetail struct {
	MatchID      string
	GameDuration int
	GameCreation int64
	Players      []PlayerDetail
	Teams        []TeamDetail
}

type HighlightType string

const (
	HighlightKill      HighlightType = "KILL"
	HighlightMultiKill HighlightType = "MULTI_KILL"
	HighlightObjective HighlightType = "OBJECTIVE"
	HighlightTeamfight HighlightType = "TEAMFIGHT"
)

type Highlight struct {
	ID        int64
	MatchID   string
	Puuid     string
	Type      HighlightType
	Title     string
	VideoURL  string
	StartTime int
	EndTime   int
	ViewCount int
	CreatedAt time.Time
}

type Analysis struct {
	ID         int64
	MatchID    string
	Summary    string
	Strengths  []string
	Weaknesses []string
	CreatedAt  time.Time
}

type Settings struct {
	AutoLaunch    bool
	AutoShowOnLoL bool
}

// SessionRecord is the persisted form of the auth session. A row with empty
// tokens means logged out; tokens are always written as a pair.
type SessionRecord struct {
	AccessToken  string
	RefreshToken string
	User         *User
	UpdatedAt    time.Time
}
