package toursapi

import (
	"net/http"

	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
	"github.com/launchfolio/launchfolio/internal/tour"
)

type handlers struct {
	service service
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	category := tour.Category(r.URL.Query().Get("category"))
	summaries, err := h.service.list(r.Context(), caller.UserID, category)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		Tours []tourSummary `json:"tours"`
	}{Tours: summaries})
}

func (h handlers) handleState(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	view, err := h.service.state(r.Context(), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// writeView renders a runner view, surfacing transition errors as coded
// responses.
func writeView(w http.ResponseWriter, r *http.Request, view tour.View, err error) {
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h handlers) handleStart(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	view, err := h.service.start(r.Context(), caller.UserID, r.PathValue("id"))
	writeView(w, r, view, err)
}

func (h handlers) handleNext(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	view, err := h.service.transition(r.Context(), caller.UserID, h.service.runner.Next)
	writeView(w, r, view, err)
}

func (h handlers) handlePrevious(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	view, err := h.service.transition(r.Context(), caller.UserID, h.service.runner.Previous)
	writeView(w, r, view, err)
}

func (h handlers) handleSkip(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	view, err := h.service.transition(r.Context(), caller.UserID, h.service.runner.Skip)
	writeView(w, r, view, err)
}

func (h handlers) handleClose(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	view, err := h.service.transition(r.Context(), caller.UserID, h.service.runner.Close)
	writeView(w, r, view, err)
}

type completeRequest struct {
	TourID string `json:"tour_id"`
}

func (h handlers) handleComplete(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req completeRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err, httpx.Locale(r))
			return
		}
	}
	view, err := h.service.complete(r.Context(), caller.UserID, req.TourID)
	writeView(w, r, view, err)
}

func (h handlers) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	prefs, err := h.service.preferences(r.Context(), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, prefs)
}

func (h handlers) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var patch tour.PreferencesPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	prefs, err := h.service.updatePreferences(r.Context(), caller.UserID, patch)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, prefs)
}

func (h handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	if err := h.service.reset(r.Context(), caller.UserID); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
