package accountsapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/launchfolio/launchfolio/internal/auth/session"
	"github.com/launchfolio/launchfolio/internal/auth/storage"
	"github.com/launchfolio/launchfolio/internal/auth/user"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
)

type handlers struct {
	module Module
}

type userView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Tier        string `json:"tier"`
	Admin       bool   `json:"admin"`
	KYCStatus   string `json:"kyc_status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func newUserView(account user.User) userView {
	return userView{
		ID:          account.ID,
		DisplayName: account.DisplayName,
		Email:       account.Email,
		Tier:        user.TierLabel(account.Tier),
		Admin:       account.Admin,
		KYCStatus:   user.KYCStatusLabel(account.KYC),
		CreatedAt:   account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   account.UpdatedAt.Format(time.RFC3339),
	}
}

type registerRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type registerResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

func (h handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	account, err := user.CreateUser(user.CreateUserInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}, h.module.clock, h.module.idGenerator)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	if err := h.module.store.CreateUser(r.Context(), account); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			err = apperrors.New(apperrors.CodeAlreadyExists, "an account with that email already exists")
		} else {
			err = fmt.Errorf("create user: %w", err)
		}
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	token, err := session.Issue(account, h.module.sessions)
	if err != nil {
		httpx.WriteError(w, fmt.Errorf("issue session: %w", err), httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		User:  newUserView(account),
		Token: token,
	})
}

func (h handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	account, err := h.module.store.GetUser(r.Context(), caller.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		err = apperrors.New(apperrors.CodeUserNotFound, "account not found")
	}
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserView(account))
}
