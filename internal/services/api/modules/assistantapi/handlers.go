package assistantapi

import (
	"net/http"
	"time"

	"github.com/launchfolio/launchfolio/internal/assistant"
	assistantservice "github.com/launchfolio/launchfolio/internal/assistant/service"
	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
)

type handlers struct {
	service *assistantservice.Service
}

type conversationView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newConversationView(conversation assistant.Conversation) conversationView {
	return conversationView{
		ID:        conversation.ID,
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt.Format(time.RFC3339),
		UpdatedAt: conversation.UpdatedAt.Format(time.RFC3339),
	}
}

type messageView struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func newMessageView(message assistant.Message) messageView {
	return messageView{
		ID:        message.ID,
		Role:      string(message.Role),
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Prompt         string `json:"prompt"`
}

type chatResponse struct {
	Conversation conversationView `json:"conversation"`
	Reply        messageView      `json:"reply"`
}

func (h handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req chatRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	result, err := h.service.Chat(r.Context(), assistantservice.ChatInput{
		UserID:         caller.UserID,
		ConversationID: req.ConversationID,
		Prompt:         req.Prompt,
	})
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, chatResponse{
		Conversation: newConversationView(result.Conversation),
		Reply:        newMessageView(result.Reply),
	})
}

func (h handlers) handleListConversations(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	conversations, err := h.service.ListConversations(r.Context(), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	views := make([]conversationView, 0, len(conversations))
	for _, conversation := range conversations {
		views = append(views, newConversationView(conversation))
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		Conversations []conversationView `json:"conversations"`
	}{Conversations: views})
}

func (h handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	conversation, messages, err := h.service.History(r.Context(), caller.UserID, r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	views := make([]messageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, newMessageView(message))
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		Conversation conversationView `json:"conversation"`
		Messages     []messageView    `json:"messages"`
	}{Conversation: newConversationView(conversation), Messages: views})
}

type analysisView struct {
	ProposalID string `json:"proposal_id"`
	Result     string `json:"result"`
	Cached     bool   `json:"cached"`
	CreatedAt  string `json:"created_at"`
}

func (h handlers) handleAnalyzeProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	result, err := h.service.AnalyzeProposal(r.Context(), caller.UserID, r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, analysisView{
		ProposalID: result.ProposalID,
		Result:     result.Result,
		Cached:     result.Cached,
		CreatedAt:  result.CreatedAt.Format(time.RFC3339),
	})
}
