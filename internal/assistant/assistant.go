// Package assistant implements the generative-text conversations the
// platform offers investors.
package assistant

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is one chat thread between a user and the assistant.
type Conversation struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one turn in a conversation.
type Message struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	CreatedAt      time.Time
}

// maxTitleLength bounds conversation titles derived from the first prompt.
const maxTitleLength = 80

// NewConversation creates a conversation titled from the opening prompt.
func NewConversation(userID, prompt string, now func() time.Time, idGenerator func() (string, error)) (Conversation, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	userID = strings.TrimSpace(userID)
	prompt = strings.TrimSpace(prompt)
	if userID == "" {
		return Conversation{}, apperrors.New(apperrors.CodeUnauthorized, "user id is required")
	}
	if prompt == "" {
		return Conversation{}, apperrors.New(apperrors.CodeAssistantEmptyPrompt, "prompt is required")
	}

	conversationID, err := idGenerator()
	if err != nil {
		return Conversation{}, fmt.Errorf("generate conversation id: %w", err)
	}
	createdAt := now().UTC()
	return Conversation{
		ID:        conversationID,
		UserID:    userID,
		Title:     TitleFromPrompt(prompt),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// TitleFromPrompt derives a short conversation title from a prompt.
func TitleFromPrompt(prompt string) string {
	title := strings.Join(strings.Fields(prompt), " ")
	if len(title) <= maxTitleLength {
		return title
	}
	cut := strings.LastIndexByte(title[:maxTitleLength], ' ')
	if cut <= 0 {
		cut = maxTitleLength
	}
	return title[:cut] + "…"
}

// NewMessage creates one validated conversation turn.
func NewMessage(conversationID string, role Role, content string, now func() time.Time, idGenerator func() (string, error)) (Message, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	conversationID = strings.TrimSpace(conversationID)
	content = strings.TrimSpace(content)
	if conversationID == "" {
		return Message{}, apperrors.New(apperrors.CodeConversationNotFound, "conversation id is required")
	}
	if role != RoleUser && role != RoleAssistant {
		return Message{}, fmt.Errorf("message role %q is invalid", role)
	}
	if content == "" {
		return Message{}, apperrors.New(apperrors.CodeAssistantEmptyPrompt, "message content is required")
	}

	messageID, err := idGenerator()
	if err != nil {
		return Message{}, fmt.Errorf("generate message id: %w", err)
	}
	return Message{
		ID:             messageID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      now().UTC(),
	}, nil
}
