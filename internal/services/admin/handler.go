// Package admin hosts the operator API: user administration, the support
// queue, proposal overrides, compliance reports, and telemetry history.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	authstorage "github.com/launchfolio/launchfolio/internal/auth/storage"
	"github.com/launchfolio/launchfolio/internal/auth/user"
	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/launchpad/compliance"
	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
	"github.com/launchfolio/launchfolio/internal/support"
	supportservice "github.com/launchfolio/launchfolio/internal/support/service"
	supportstorage "github.com/launchfolio/launchfolio/internal/support/storage"
	"github.com/launchfolio/launchfolio/internal/telemetry"
	telemetrysqlite "github.com/launchfolio/launchfolio/internal/telemetry/sqlite"
)

// Prefix is the route prefix served by the operator API.
const Prefix = "/admin/v1/"

// TelemetryReader lists recorded telemetry events.
type TelemetryReader interface {
	ListEvents(ctx context.Context, filter telemetrysqlite.EventFilter) ([]telemetry.Event, error)
}

// Handler serves operator routes.
type Handler struct {
	users      authstorage.UserStore
	support    *supportservice.Service
	launchpad  *launchpadservice.Service
	compliance *compliance.Checker
	telemetry  TelemetryReader
	clock      func() time.Time
}

// HandlerConfig carries the services the operator API fronts.
type HandlerConfig struct {
	Users      authstorage.UserStore
	Support    *supportservice.Service
	Launchpad  *launchpadservice.Service
	Compliance *compliance.Checker
	Telemetry  TelemetryReader
	Clock      func() time.Time
}

// NewHandler builds the operator route handler.
func NewHandler(cfg HandlerConfig) *Handler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Handler{
		users:      cfg.Users,
		support:    cfg.Support,
		launchpad:  cfg.Launchpad,
		compliance: cfg.Compliance,
		telemetry:  cfg.Telemetry,
		clock:      clock,
	}
}

// Routes returns the operator handler wrapped in admin authentication.
func (h *Handler) Routes(verify principal.Verifier) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+Prefix+"users", h.handleListUsers)
	mux.HandleFunc("GET "+Prefix+"users/{id}", h.handleGetUser)
	mux.HandleFunc("PATCH "+Prefix+"users/{id}", h.handleUpdateUser)
	mux.HandleFunc("GET "+Prefix+"stats", h.handleStats)
	mux.HandleFunc("POST "+Prefix+"proposals/{id}/cancel", h.handleCancelProposal)
	mux.HandleFunc("GET "+Prefix+"compliance/proposals/{id}", h.handleProposalCompliance)
	mux.HandleFunc("GET "+Prefix+"compliance/platform", h.handlePlatformCompliance)
	mux.HandleFunc("GET "+Prefix+"tickets", h.handleListTickets)
	mux.HandleFunc("GET "+Prefix+"tickets/{id}", h.handleGetTicket)
	mux.HandleFunc("POST "+Prefix+"tickets/{id}/assign", h.handleAssignTicket)
	mux.HandleFunc("POST "+Prefix+"tickets/{id}/transition", h.handleTransitionTicket)
	mux.HandleFunc("POST "+Prefix+"tickets/{id}/replies", h.handleReplyTicket)
	mux.HandleFunc("GET "+Prefix+"rate-limit", h.handleGetRateLimit)
	mux.HandleFunc("PUT "+Prefix+"rate-limit", h.handleUpdateRateLimit)
	mux.HandleFunc("GET "+Prefix+"telemetry", h.handleListTelemetry)

	middleware := []httpx.Middleware{
		httpx.RequestID(),
		httpx.RecoverPanic(),
	}
	if verify != nil {
		middleware = append(middleware, principal.Resolve(verify))
	}
	middleware = append(middleware, principal.RequireAdmin())
	return httpx.Chain(mux, middleware...)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageSize := 0
	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "page_size must be an integer"), httpx.Locale(r))
			return
		}
		pageSize = size
	}
	accounts, nextToken, err := h.users.ListUsers(r.Context(), pageSize, query.Get("page_token"))
	if err != nil {
		httpx.WriteError(w, fmt.Errorf("list users: %w", err), httpx.Locale(r))
		return
	}
	views := make([]userView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, newUserView(account))
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		Users         []userView `json:"users"`
		NextPageToken string     `json:"next_page_token,omitempty"`
	}{Users: views, NextPageToken: nextToken})
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.getUser(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserView(account))
}

type updateUserRequest struct {
	Tier      *string `json:"tier"`
	Admin     *bool   `json:"admin"`
	KYCStatus *string `json:"kyc_status"`
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	account, err := h.getUser(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	if req.Tier != nil {
		tier, ok := user.ParseTier(*req.Tier)
		if !ok {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "unknown account tier"), httpx.Locale(r))
			return
		}
		account.Tier = tier
	}
	if req.Admin != nil {
		account.Admin = *req.Admin
	}
	if req.KYCStatus != nil {
		status, ok := user.ParseKYCStatus(*req.KYCStatus)
		if !ok {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "unknown kyc status"), httpx.Locale(r))
			return
		}
		account.KYC = status
	}
	account.UpdatedAt = h.clock().UTC()
	if err := h.users.UpdateUser(r.Context(), account); err != nil {
		httpx.WriteError(w, fmt.Errorf("update user: %w", err), httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserView(account))
}

func (h *Handler) getUser(ctx context.Context, userID string) (user.User, error) {
	account, err := h.users.GetUser(ctx, userID)
	if errors.Is(err, authstorage.ErrNotFound) {
		return user.User{}, apperrors.New(apperrors.CodeUserNotFound, "account not found")
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return account, nil
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.launchpad.PlatformStats(r.Context())
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newStatsView(stats))
}

func (h *Handler) handleCancelProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := h.launchpad.ForceCancelProposal(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProposalView(proposal))
}

type rateLimitView struct {
	Limit         int   `json:"limit"`
	WindowSeconds int64 `json:"window_seconds"`
	Enabled       bool  `json:"enabled"`
}

type updateRateLimitRequest struct {
	Limit         int   `json:"limit"`
	WindowSeconds int64 `json:"window_seconds"`
	Enabled       bool  `json:"enabled"`
}

func (h *Handler) handleGetRateLimit(w http.ResponseWriter, r *http.Request) {
	cfg := h.launchpad.RateLimitConfig()
	httpx.WriteJSON(w, http.StatusOK, rateLimitView{
		Limit:         cfg.Limit,
		WindowSeconds: int64(cfg.Window / time.Second),
		Enabled:       cfg.Enabled,
	})
}

func (h *Handler) handleUpdateRateLimit(w http.ResponseWriter, r *http.Request) {
	var req updateRateLimitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	cfg := launchpad.RateLimitConfig{
		Limit:   req.Limit,
		Window:  time.Duration(req.WindowSeconds) * time.Second,
		Enabled: req.Enabled,
	}
	if err := h.launchpad.UpdateRateLimitConfig(r.Context(), cfg); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	cfg = h.launchpad.RateLimitConfig()
	httpx.WriteJSON(w, http.StatusOK, rateLimitView{
		Limit:         cfg.Limit,
		WindowSeconds: int64(cfg.Window / time.Second),
		Enabled:       cfg.Enabled,
	})
}

func (h *Handler) handleProposalCompliance(w http.ResponseWriter, r *http.Request) {
	report, err := h.compliance.CheckProposal(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProposalReportView(report))
}

func (h *Handler) handlePlatformCompliance(w http.ResponseWriter, r *http.Request) {
	report, err := h.compliance.CheckPlatform(r.Context())
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newPlatformReportView(report))
}

func (h *Handler) handleListTickets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := supportstorage.TicketFilter{
		AuthorID:   query.Get("author_id"),
		AssigneeID: query.Get("assignee_id"),
		PageToken:  query.Get("page_token"),
	}
	if raw := query.Get("status"); raw != "" {
		status, ok := support.ParseTicketStatus(raw)
		if !ok {
			httpx.WriteError(w, apperrors.New(apperrors.CodeFilterInvalid, "unknown ticket status"), httpx.Locale(r))
			return
		}
		filter.Status = &status
	}
	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "page_size must be an integer"), httpx.Locale(r))
			return
		}
		filter.PageSize = size
	}
	page, err := h.support.List(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTicketPageView(page))
}

func (h *Handler) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	ticket, replies, err := h.support.Get(r.Context(), r.PathValue("id"), caller.UserID, true)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTicketThreadView(ticket, replies))
}

type assignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

func (h *Handler) handleAssignTicket(w http.ResponseWriter, r *http.Request) {
	var req assignTicketRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	ticket, err := h.support.Assign(r.Context(), r.PathValue("id"), req.AssigneeID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTicketView(ticket))
}

type transitionTicketRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleTransitionTicket(w http.ResponseWriter, r *http.Request) {
	var req transitionTicketRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	target, ok := support.ParseTicketStatus(req.Status)
	if !ok {
		httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "unknown ticket status"), httpx.Locale(r))
		return
	}
	ticket, err := h.support.Transition(r.Context(), r.PathValue("id"), target)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTicketView(ticket))
}

type replyTicketRequest struct {
	Body string `json:"body"`
}

func (h *Handler) handleReplyTicket(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req replyTicketRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	reply, err := h.support.Reply(r.Context(), r.PathValue("id"), caller.UserID, req.Body, true)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newReplyView(reply))
}

func (h *Handler) handleListTelemetry(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := telemetrysqlite.EventFilter{
		Service: query.Get("service"),
		Kind:    query.Get("kind"),
	}
	if raw := query.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "since must be an RFC 3339 timestamp"), httpx.Locale(r))
			return
		}
		filter.Since = since
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "limit must be an integer"), httpx.Locale(r))
			return
		}
		filter.Limit = limit
	}
	events, err := h.telemetry.ListEvents(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, fmt.Errorf("list telemetry events: %w", err), httpx.Locale(r))
		return
	}
	views := make([]telemetryEventView, 0, len(events))
	for _, evt := range events {
		views = append(views, newTelemetryEventView(evt))
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		Events []telemetryEventView `json:"events"`
	}{Events: views})
}
