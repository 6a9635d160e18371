package supportapi

import (
	"net/http"
	"strconv"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
	"github.com/launchfolio/launchfolio/internal/support"
	supportservice "github.com/launchfolio/launchfolio/internal/support/service"
	"github.com/launchfolio/launchfolio/internal/support/storage"
)

type handlers struct {
	service *supportservice.Service
}

type openTicketRequest struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Priority string `json:"priority"`
}

func (h handlers) handleOpen(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req openTicketRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	priority := support.TicketPriorityNormal
	if req.Priority != "" {
		parsed, ok := support.ParseTicketPriority(req.Priority)
		if !ok {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "unknown ticket priority"), httpx.Locale(r))
			return
		}
		priority = parsed
	}
	ticket, err := h.service.Open(r.Context(), support.CreateTicketInput{
		AuthorID: caller.UserID,
		Subject:  req.Subject,
		Body:     req.Body,
		Priority: priority,
	})
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newTicketView(ticket))
}

// handleList returns the caller's own tickets. Operators browse the
// full queue through the admin service instead.
func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	filter := storage.TicketFilter{
		AuthorID:  caller.UserID,
		PageToken: query.Get("page_token"),
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
	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTicketPageView(page))
}

func (h handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	ticket, replies, err := h.service.Get(r.Context(), r.PathValue("id"), caller.UserID, caller.Admin)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTicketThreadView(ticket, replies))
}

type replyRequest struct {
	Body string `json:"body"`
}

func (h handlers) handleReply(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req replyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	reply, err := h.service.Reply(r.Context(), r.PathValue("id"), caller.UserID, req.Body, caller.Admin)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newReplyView(reply))
}
