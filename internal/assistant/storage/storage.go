// Package storage defines persistence contracts for the assistant service.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/launchfolio/launchfolio/internal/assistant"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a duplicate record id.
	ErrAlreadyExists = errors.New("record already exists")
)

// Analysis is one cached proposal analysis result.
type Analysis struct {
	ProposalID string
	// InputHash fingerprints the proposal data the analysis was built from.
	InputHash string
	Result    string
	CreatedAt time.Time
}

// ConversationStore persists chat threads and their messages.
type ConversationStore interface {
	CreateConversation(ctx context.Context, conversation assistant.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (assistant.Conversation, error)
	// TouchConversation bumps a conversation's updated timestamp.
	TouchConversation(ctx context.Context, conversationID string, updatedAt time.Time) error
	// ListConversations returns a user's threads newest first.
	ListConversations(ctx context.Context, userID string) ([]assistant.Conversation, error)
	AppendMessage(ctx context.Context, message assistant.Message) error
	// ListMessages returns a conversation's turns oldest first.
	ListMessages(ctx context.Context, conversationID string) ([]assistant.Message, error)
}

// UsageStore tracks per-user daily message counts for quota gating.
type UsageStore interface {
	// IncrementUsage bumps and returns the user's message count for a day.
	// Days are YYYY-MM-DD in UTC.
	IncrementUsage(ctx context.Context, userID, day string) (int, error)
	// GetUsage returns the user's message count for a day.
	GetUsage(ctx context.Context, userID, day string) (int, error)
}

// AnalysisStore caches proposal analyses keyed by proposal and input hash.
type AnalysisStore interface {
	GetAnalysis(ctx context.Context, proposalID, inputHash string) (Analysis, error)
	PutAnalysis(ctx context.Context, analysis Analysis) error
}

// Store combines all assistant persistence contracts.
type Store interface {
	ConversationStore
	UsageStore
	AnalysisStore
}
