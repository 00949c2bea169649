package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nexus-companion/internal/domain"
)

type sessionView struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *domain.User `json:"user,omitempty"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionView{
		IsAuthenticated: s.sessionStore.IsAuthenticated(),
		User:            s.sessionStore.User(),
	})
}

type loginRequest struct {
	IDToken string `json:"idToken"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil || req.IDToken == "" {
		http.Error(w, "idToken is required", http.StatusBadRequest)
		return
	}

	user, err := s.authSvc.CompleteLogin(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.authSvc.Logout(r.Context())
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"
	user, err := s.authSvc.CurrentUser(r.Context(), refresh)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	user, err := s.authSvc.UpdateProfile(r.Context(), req.Name, req.ProfileImage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type linkRiotRequest struct {
	SummonerName string `json:"summonerName"`
	TagLine      string `json:"tagLine"`
}

func (s *Server) handleLinkRiot(w http.ResponseWriter, r *http.Request) {
	var req linkRiotRequest
	if err := decodeBody(r, &req); err != nil || req.SummonerName == "" || req.TagLine == "" {
		http.Error(w, "summonerName and tagLine are required", http.StatusBadRequest)
		return
	}

	user, err := s.authSvc.LinkRiot(r.Context(), req.SummonerName, req.TagLine)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUnlinkRiot(w http.ResponseWriter, r *http.Request) {
	user, err := s.authSvc.UnlinkRiot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.authSvc.DeleteAccount(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.authSvc.Settings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type settingsRequest struct {
	AutoLaunch    bool `json:"autoLaunch"`
	AutoShowOnLol bool `json:"autoShowOnLol"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid settings payload", http.StatusBadRequest)
		return
	}

	settings, err := s.authSvc.UpdateSettings(r.Context(), domain.Settings{
		AutoLaunch:    req.AutoLaunch,
		AutoShowOnLoL: req.AutoShowOnLol,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type historyView struct {
	Profile *domain.SummonerProfile `json:"profile"`
	Matches []domain.MatchSummary   `json:"matches"`
	Stats   any                     `json:"stats,omitempty"`
}

func (s *Server) handleMatchHistory(w http.ResponseWriter, r *http.Request) {
	gameName := chi.URLParam(r, "gameName")
	tagLine := chi.URLParam(r, "tagLine")
	refresh := r.URL.Query().Get("refresh") == "true"

	history, err := s.matchSvc.GetHistory(r.Context(), gameName, tagLine, refresh)
	if err != nil {
		writeError(w, err)
		return
	}

	view := historyView{Profile: history.Profile, Matches: history.Matches}
	if history.Stats != nil {
		view.Stats = history.Stats
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleMatchDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.matchSvc.GetDetail(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type killParticipationView struct {
	KillParticipation int  `json:"killParticipation"`
	Available         bool `json:"available"`
}

func (s *Server) handleKillParticipation(w http.ResponseWriter, r *http.Request) {
	gameName := chi.URLParam(r, "gameName")
	tagLine := chi.URLParam(r, "tagLine")
	player := r.URL.Query().Get("player")
	if player == "" {
		player = gameName
	}

	pct, ok, err := s.matchSvc.KillParticipation(r.Context(), gameName, tagLine, player)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, killParticipationView{KillParticipation: pct, Available: ok})
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid highlight id", http.StatusBadRequest)
		return
	}

	highlight, err := s.highlightSvc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, highlight)
}

func pagination(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	return page, size
}

func (s *Server) handleMatchHighlights(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)
	result, err := s.highlightSvc.ForMatch(r.Context(), chi.URLParam(r, "matchID"), page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlayerHighlights(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)
	highlightType := domain.HighlightType(r.URL.Query().Get("type"))

	result, err := s.highlightSvc.ForPlayer(r.Context(), chi.URLParam(r, "puuid"), page, size, highlightType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHighlightView(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid highlight id", http.StatusBadRequest)
		return
	}

	highlight, err := s.highlightSvc.View(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, highlight)
}

func (s *Server) handleAutoGenerate(w http.ResponseWriter, r *http.Request) {
	if err := s.highlightSvc.AutoGenerate(r.Context(), chi.URLParam(r, "matchID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, nil)
}

func (s *Server) handleDeleteHighlight(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid highlight id", http.StatusBadRequest)
		return
	}

	if err := s.highlightSvc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type lcuStatusView struct {
	Connected bool   `json:"connected"`
	Phase     string `json:"phase,omitempty"`
}

func (s *Server) handleLCUStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lcuStatusView{
		Connected: s.lcuWatcher.Connected(),
		Phase:     s.lcuWatcher.Phase(),
	})
}
