// Package http implements the REST API for the mindfulness hub.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/application/command"
	"github.com/chrysalis-app/mindfulness-hub/internal/application/query"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/quote"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Mindfulness Hub API",
		"version":     "v1",
		"description": "REST API for meditation tracking, streaks and social meditation",
		"endpoints": map[string]string{
			"health":      "/health",
			"register":    "/api/v1/auth/register",
			"login":       "/api/v1/auth/login",
			"sessions":    "/api/v1/sessions",
			"leaderboard": "/api/v1/leaderboard",
			"daily_quote": "/api/v1/quotes/daily",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW MODELS
// ══════════════════════════════════════════════════════════════════════════════

type accountView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Stats       statsView `json:"stats"`
	CreatedAt   time.Time `json:"created_at"`
}

type statsView struct {
	Experience      int        `json:"experience"`
	Level           int        `json:"level"`
	TotalSessions   int        `json:"total_sessions"`
	TotalMinutes    int        `json:"total_minutes"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastSessionDate *time.Time `json:"last_session_date,omitempty"`
}

type sessionView struct {
	ID                    string     `json:"id"`
	DurationMinutes       int        `json:"duration_minutes"`
	Frequency             string     `json:"frequency"`
	State                 string     `json:"state"`
	PauseCount            int        `json:"pause_count"`
	ActualDurationMinutes int        `json:"actual_duration_minutes,omitempty"`
	XPGained              int        `json:"xp_gained,omitempty"`
	StartedAt             time.Time  `json:"started_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}

type groupView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	Code        string    `json:"code,omitempty"`
	MemberCount int       `json:"member_count"`
	MaxMembers  int       `json:"max_members"`
	CreatedAt   time.Time `json:"created_at"`
}

type entryView struct {
	Rank          int    `json:"rank"`
	AccountID     string `json:"account_id"`
	DisplayName   string `json:"display_name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Level         int    `json:"level"`
	Experience    int    `json:"experience"`
	TotalMinutes  int    `json:"total_minutes"`
	CurrentStreak int    `json:"current_streak"`
}

func newAccountView(a *account.Account) accountView {
	return accountView{
		ID:          a.ID,
		Email:       a.Email.String(),
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
		Stats:       newStatsView(a.Stats),
		CreatedAt:   a.CreatedAt,
	}
}

func newStatsView(s account.Aggregates) statsView {
	return statsView{
		Experience:      int(s.Experience),
		Level:           int(s.Level),
		TotalSessions:   s.TotalSessions,
		TotalMinutes:    s.TotalMinutes,
		CurrentStreak:   s.CurrentStreak,
		LongestStreak:   s.LongestStreak,
		LastSessionDate: s.LastSessionDate,
	}
}

func newSessionView(s *session.Session) sessionView {
	return sessionView{
		ID:                    s.ID,
		DurationMinutes:       s.DurationMinutes,
		Frequency:             string(s.Frequency),
		State:                 string(s.State),
		PauseCount:            s.PauseCount,
		ActualDurationMinutes: s.ActualDurationMinutes,
		XPGained:              s.XPGained,
		StartedAt:             s.StartedAt,
		CompletedAt:           s.CompletedAt,
	}
}

// newGroupView renders a group. The join code is only included when the
// caller may share it, i.e. for groups the caller belongs to.
func newGroupView(g *social.Group, includeCode bool) groupView {
	v := groupView{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		IsPublic:    g.IsPublic,
		MemberCount: g.MemberCount,
		MaxMembers:  g.MaxMembers,
		CreatedAt:   g.CreatedAt,
	}
	if includeCode {
		v.Code = string(g.Code)
	}
	return v
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.allowAttempt(w, r, "register") {
		return
	}

	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.deps.RegisterAccount.Handle(r.Context(), command.RegisterAccountCommand{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"account": newAccountView(res.Account),
		"token":   res.Token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.allowAttempt(w, r, "login") {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.deps.Authenticate.Handle(r.Context(), command.AuthenticateCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account": newAccountView(res.Account),
		"token":   res.Token,
	})
}

// allowAttempt applies the per-IP attempt limiter to an auth action.
// The limiter fails open: a broken Redis never locks users out.
func (s *Server) allowAttempt(w http.ResponseWriter, r *http.Request, action string) bool {
	if s.deps.LoginLimiter == nil {
		return true
	}

	allowed, err := s.deps.LoginLimiter.Allow(r.Context(), getClientIP(r), action)
	if err != nil {
		s.logger.Warn("attempt limiter unavailable", logger.Err(err))
		return true
	}
	if !allowed {
		w.Header().Set("Retry-After", "60")
		writeJSONError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many attempts, please try again later")
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	acct, err := s.deps.GetProfile.Handle(r.Context(), query.GetProfileQuery{
		AccountID: accountIDFromContext(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountView(acct))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName *string `json:"display_name"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	acct, err := s.deps.UpdateProfile.Handle(r.Context(), command.UpdateProfileCommand{
		AccountID:   accountIDFromContext(r.Context()),
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountView(acct))
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.GetAccountStats.Handle(r.Context(), query.GetAccountStatsQuery{
		AccountID: accountIDFromContext(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account_id":   res.AccountID,
		"display_name": res.DisplayName,
		"stats":        newStatsView(res.Stats),
		"global_rank":  res.GlobalRank,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DurationMinutes int    `json:"duration_minutes"`
		Frequency       string `json:"frequency"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	sess, err := s.deps.StartSession.Handle(r.Context(), command.StartSessionCommand{
		AccountID:       accountIDFromContext(r.Context()),
		DurationMinutes: req.DurationMinutes,
		Frequency:       req.Frequency,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSessionView(sess))
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.PauseSession.Handle(r.Context(), command.PauseSessionCommand{
		AccountID: accountIDFromContext(r.Context()),
		SessionID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.ResumeSession.Handle(r.Context(), command.ResumeSessionCommand{
		AccountID: accountIDFromContext(r.Context()),
		SessionID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActualDurationMinutes int `json:"actual_duration_minutes"`
	}
	// Body is optional for completion.
	if r.Body != nil && r.ContentLength != 0 {
		if !s.decodeBody(w, r, &req) {
			return
		}
	}

	res, err := s.deps.CompleteSession.Handle(r.Context(), command.CompleteSessionCommand{
		AccountID:             accountIDFromContext(r.Context()),
		SessionID:             r.PathValue("id"),
		ActualDurationMinutes: req.ActualDurationMinutes,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":         newSessionView(res.Session),
		"stats":           newStatsView(res.Account.Stats),
		"xp_gained":       res.XPGained,
		"leveled_up":      res.LeveledUp,
		"streak_extended": res.StreakExtended,
		"streak_broken":   res.StreakBroken,
	})
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.GetSessionHistory.Handle(r.Context(), query.GetSessionHistoryQuery{
		AccountID: accountIDFromContext(r.Context()),
		Limit:     getQueryParamInt(r, "limit", 0),
		Offset:    getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	views := make([]sessionView, 0, len(res.Sessions))
	for _, sess := range res.Sessions {
		views = append(views, newSessionView(sess))
	}

	writeJSONWithMeta(w, r, http.StatusOK, views, &ResponseMeta{
		TotalCount: res.Total,
		Limit:      res.Limit,
		Offset:     res.Offset,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// FRIEND HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.deps.GetFriends.Handle(r.Context(), query.GetFriendsQuery{
		AccountID: accountIDFromContext(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, friends)
}

func (s *Server) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	pending, err := s.deps.GetPendingRequests.Handle(r.Context(), query.GetPendingRequestsQuery{
		AccountID: accountIDFromContext(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleSendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipientID string `json:"recipient_id"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	edge, err := s.deps.SendFriendRequest.Handle(r.Context(), command.SendFriendRequestCommand{
		InitiatorID: accountIDFromContext(r.Context()),
		RecipientID: req.RecipientID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"friendship_id": edge.ID,
		"status":        string(edge.Status),
	})
}

func (s *Server) handleAcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	edge, err := s.deps.AcceptFriendRequest.Handle(r.Context(), command.AcceptFriendRequestCommand{
		AccountID:    accountIDFromContext(r.Context()),
		FriendshipID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"friendship_id": edge.ID,
		"status":        string(edge.Status),
	})
}

func (s *Server) handleDeclineFriendRequest(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeclineFriendRequest.Handle(r.Context(), command.DeclineFriendRequestCommand{
		AccountID:    accountIDFromContext(r.Context()),
		FriendshipID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	err := s.deps.RemoveFriend.Handle(r.Context(), command.RemoveFriendCommand{
		AccountID: accountIDFromContext(r.Context()),
		FriendID:  r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
		MaxMembers  int    `json:"max_members"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	g, err := s.deps.CreateGroup.Handle(r.Context(), command.CreateGroupCommand{
		CreatorID:   accountIDFromContext(r.Context()),
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		MaxMembers:  req.MaxMembers,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGroupView(g, true))
}

func (s *Server) handleListPublicGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.deps.ListGroups.HandlePublic(r.Context(), query.ListPublicGroupsQuery{
		Limit:  getQueryParamInt(r, "limit", 0),
		Offset: getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, newGroupView(g, false))
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleMyGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.deps.ListGroups.HandleMine(r.Context(), query.ListMyGroupsQuery{
		AccountID: accountIDFromContext(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, newGroupView(g, true))
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"group_id"`
		Code    string `json:"code"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.deps.JoinGroup.Handle(r.Context(), command.JoinGroupCommand{
		AccountID: accountIDFromContext(r.Context()),
		GroupID:   req.GroupID,
		Code:      req.Code,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"group": newGroupView(res.Group, true),
		"role":  string(res.Membership.Role),
	})
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	err := s.deps.LeaveGroup.Handle(r.Context(), command.LeaveGroupCommand{
		AccountID: accountIDFromContext(r.Context()),
		GroupID:   r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

func (s *Server) handleGroupMembers(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.GetGroupMembers.Handle(r.Context(), query.GetGroupMembersQuery{
		RequesterID: accountIDFromContext(r.Context()),
		GroupID:     r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"group":   newGroupView(res.Group, true),
		"members": res.Members,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD & QUOTE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		RequesterID: accountIDFromContext(r.Context()),
		Scope:       leaderboard.Scope(getQueryParam(r, "scope", string(leaderboard.ScopeGlobal))),
		GroupID:     r.URL.Query().Get("group_id"),
		Limit:       getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	entries := make([]entryView, 0, len(res.Entries))
	for _, e := range res.Entries {
		entries = append(entries, entryView{
			Rank:          e.Rank,
			AccountID:     e.AccountID,
			DisplayName:   e.DisplayName,
			AvatarURL:     e.AvatarURL,
			Level:         e.Level,
			Experience:    e.Experience,
			TotalMinutes:  e.TotalMinutes,
			CurrentStreak: e.CurrentStreak,
		})
	}

	writeJSONWithMeta(w, r, http.StatusOK, map[string]interface{}{
		"scope":   string(res.Scope),
		"entries": entries,
	}, &ResponseMeta{FromCache: res.FromCache})
}

func (s *Server) handleDailyQuote(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.GetDailyQuote.Handle(r.Context(), query.GetDailyQuoteQuery{})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"text":   res.Quote.Text,
		"author": res.Quote.Author,
		"day":    res.Day.Format("2006-01-02"),
	})
}

func (s *Server) handleAddQuote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	q, err := s.deps.AddQuote.Handle(r.Context(), command.AddQuoteCommand{
		Text:   req.Text,
		Author: req.Author,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": q.ID})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING & ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body into dst. On failure it writes a
// 400 and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request_body", "Request body must be valid JSON")
		return false
	}
	return true
}

// writeDomainError maps domain errors to HTTP status codes. Anything
// unmapped is a 500 with the detail kept out of the response.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, command.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")

	case errors.Is(err, account.ErrAccountAlreadyExists):
		writeJSONError(w, http.StatusConflict, "account_exists", "An account with this email already exists")
	case errors.Is(err, account.ErrAccountNotFound):
		writeJSONError(w, http.StatusNotFound, "account_not_found", "Account not found")

	case errors.Is(err, session.ErrSessionNotFound):
		writeJSONError(w, http.StatusNotFound, "session_not_found", "Session not found")
	case errors.Is(err, session.ErrNotOwner):
		// Presented as absence: sessions of other accounts are invisible.
		writeJSONError(w, http.StatusNotFound, "session_not_found", "Session not found")
	case errors.Is(err, session.ErrAlreadyCompleted):
		writeJSONError(w, http.StatusConflict, "session_completed", "Session is already completed")
	case errors.Is(err, session.ErrNotPaused):
		writeJSONError(w, http.StatusConflict, "session_not_paused", "Session is not paused")

	case errors.Is(err, social.ErrFriendshipExists):
		writeJSONError(w, http.StatusConflict, "friendship_exists", "A friendship or pending request already exists")
	case errors.Is(err, social.ErrFriendshipNotFound),
		errors.Is(err, social.ErrRequestNotFound):
		writeJSONError(w, http.StatusNotFound, "friendship_not_found", "No such friendship or request")
	case errors.Is(err, social.ErrNotRecipient),
		errors.Is(err, social.ErrNotPending):
		writeJSONError(w, http.StatusForbidden, "not_allowed", "You cannot respond to this request")

	case errors.Is(err, social.ErrGroupNotFound):
		writeJSONError(w, http.StatusNotFound, "group_not_found", "Group not found")
	case errors.Is(err, social.ErrAlreadyMember):
		writeJSONError(w, http.StatusConflict, "already_member", "Already a member of this group")
	case errors.Is(err, social.ErrNotMember):
		writeJSONError(w, http.StatusForbidden, "not_member", "You are not a member of this group")
	case errors.Is(err, social.ErrGroupFull):
		writeJSONError(w, http.StatusConflict, "group_full", "This group has reached its member limit")

	case errors.Is(err, leaderboard.ErrScopeAccess):
		writeJSONError(w, http.StatusForbidden, "scope_access_denied", "Group leaderboards are visible to members only")

	case errors.Is(err, quote.ErrQuoteNotFound):
		writeJSONError(w, http.StatusNotFound, "quote_not_found", "No quote available")

	// Sentinels without a bespoke mapping above fall back to their shared
	// kind. Command/query Validate() errors land here too.
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsUnauthorized(err):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())
	case shared.IsCapacityExceeded(err):
		writeJSONError(w, http.StatusConflict, "capacity_exceeded", err.Error())
	case shared.IsConflict(err):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())

	default:
		s.logger.Error("unhandled request error",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

